package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/comment-ranker/internal/ingest"
	"github.com/pribylovaa/comment-ranker/internal/transport/http/apierrors"
)

// IngestRequest — тело POST /videos/{video_id}/comments.
type IngestRequest struct {
	Replace  bool                `json:"replace"`
	Comments []ingest.RawComment `json:"comments"`
}

// IngestResponse — число принятых записей.
type IngestResponse struct {
	Ingested int `json:"ingested"`
}

// BookmarkRequest — тело PUT .../bookmark.
type BookmarkRequest struct {
	Bookmarked bool `json:"bookmarked"`
}

// NoteRequest — тело PUT .../note.
type NoteRequest struct {
	Note string `json:"note"`
}

func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")

	req, err := parsePageRequest(r.URL.Query())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	page, err := h.svc.GetPage(r.Context(), videoID, req.Query, req.Page, req.PageSize)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) IngestComments(w http.ResponseWriter, r *http.Request) {
	var in IngestRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	n, err := h.svc.Ingest(r.Context(), chi.URLParam(r, "video_id"), in.Comments, in.Replace)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{Ingested: n})
}

func (h *Handlers) SetBookmark(w http.ResponseWriter, r *http.Request) {
	var in BookmarkRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	err := h.svc.SetBookmark(r.Context(), chi.URLParam(r, "video_id"), chi.URLParam(r, "comment_id"), in.Bookmarked)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetNote(w http.ResponseWriter, r *http.Request) {
	var in NoteRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	err := h.svc.SetNote(r.Context(), chi.URLParam(r, "video_id"), chi.URLParam(r, "comment_id"), in.Note)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
