package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/comment-ranker/internal/models"
	"github.com/pribylovaa/comment-ranker/internal/service"
	"github.com/pribylovaa/comment-ranker/internal/transport/http/apierrors"
)

// OpenSessionRequest — тело POST /sessions; video_id можно не передавать.
type OpenSessionRequest struct {
	VideoID string `json:"video_id"`
}

// OpenSessionResponse — идентификатор новой сессии.
type OpenSessionResponse struct {
	SessionID string `json:"session_id"`
}

// ContextRequest — тело PUT /sessions/{id}/context.
type ContextRequest struct {
	VideoID string `json:"video_id"`
}

// QueryRequest — тело PUT /sessions/{id}/query.
// Immediate=true применяет запрос сразу, иначе — с debounce.
type QueryRequest struct {
	Filters   models.FilterState `json:"filters"`
	Sort      models.Sort        `json:"sort"`
	Immediate bool               `json:"immediate"`
}

func (h *Handlers) OpenSession(w http.ResponseWriter, r *http.Request) {
	var in OpenSessionRequest
	if err := decodeStrict(r, &in); err != nil && !errors.Is(err, io.EOF) {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	sess, err := h.svc.OpenSession(r.Context(), in.VideoID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, OpenSessionResponse{SessionID: sess.ID()})
}

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, sess.View())
}

func (h *Handlers) SwitchContext(w http.ResponseWriter, r *http.Request) {
	var in ContextRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.SwitchContext(in.VideoID)
	writeJSON(w, http.StatusAccepted, sess.View())
}

func (h *Handlers) SetQuery(w http.ResponseWriter, r *http.Request) {
	var in QueryRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	q := models.Query{Filters: in.Filters, Sort: in.Sort}

	apply := sess.SetQuery
	if in.Immediate {
		apply = sess.ApplyQuery
	}

	if err := apply(q); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, sess.View())
}

func (h *Handlers) LoadMore(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, sess.LoadMore())
}

func (h *Handlers) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CloseSession(chi.URLParam(r, "id")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	sess, err := h.svc.Session(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return nil, false
	}

	return sess, true
}
