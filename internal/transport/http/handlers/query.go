package handlers

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/pribylovaa/comment-ranker/internal/models"
	"github.com/pribylovaa/comment-ranker/internal/transport/http/apierrors"
)

// pageRequest — разобранные параметры GET /videos/{video_id}/comments.
type pageRequest struct {
	Query    models.Query
	Page     int
	PageSize int
}

// parsePageRequest разбирает строку запроса.
// Отсутствующий параметр — значение по умолчанию; непарсящийся — ошибка.
func parsePageRequest(v url.Values) (pageRequest, error) {
	var (
		req pageRequest
		err error
	)

	q := &req.Query
	q.Sort.Key = models.SortKey(v.Get("sort"))
	q.Sort.Order = models.SortOrder(v.Get("order"))
	q.Filters.Keyword = v.Get("q")

	ints := []struct {
		name string
		dst  *int
	}{
		{"page", &req.Page},
		{"page_size", &req.PageSize},
	}
	for _, p := range ints {
		if *p.dst, err = intParam(v, p.name); err != nil {
			return req, err
		}
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"creator", &q.Filters.Verified},
		{"links", &q.Filters.HasLinks},
		{"hearted", &q.Filters.Hearted},
		{"member", &q.Filters.Member},
		{"donated", &q.Filters.Donated},
		{"timestamp", &q.Filters.Timestamp},
	}
	for _, f := range flags {
		if *f.dst, err = boolParam(v, f.name); err != nil {
			return req, err
		}
	}

	ranges := []struct {
		prefix string
		dst    *models.Range
	}{
		{"likes", &q.Filters.LikesThreshold},
		{"replies", &q.Filters.RepliesLimit},
		{"words", &q.Filters.WordCount},
	}
	for _, rr := range ranges {
		if *rr.dst, err = rangeParam(v, rr.prefix); err != nil {
			return req, err
		}
	}

	q.Filters.DateTimeRange = models.DateRange{Start: v.Get("from"), End: v.Get("to")}

	return req, nil
}

func intParam(v url.Values, name string) (int, error) {
	s := v.Get(name)
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s", apierrors.ErrBadRequest, name)
	}

	return n, nil
}

func boolParam(v url.Values, name string) (bool, error) {
	s := v.Get(name)
	if s == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %s", apierrors.ErrBadRequest, name)
	}

	return b, nil
}

func rangeParam(v url.Values, prefix string) (models.Range, error) {
	var r models.Range

	if s := v.Get(prefix + "_min"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return r, fmt.Errorf("%w: %s_min", apierrors.ErrBadRequest, prefix)
		}

		r.Min = n
	}

	if s := v.Get(prefix + "_max"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return r, fmt.Errorf("%w: %s_max", apierrors.ErrBadRequest, prefix)
		}

		r.Max = models.Int64(n)
	}

	return r, nil
}
