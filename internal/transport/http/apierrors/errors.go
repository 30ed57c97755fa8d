// apierrors стандартизирует ответы об ошибках HTTP API.
// На вход принимает ошибку сервисного слоя, на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
package apierrors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/comment-ranker/internal/service"
)

// StatusClientClosedRequest — нестандартный код «клиент закрыл соединение».
const StatusClientClosedRequest = 499

// ErrBadRequest — ошибка разбора запроса в транспортном слое.
var ErrBadRequest = errors.New("bad request")

// APIError — единый формат для клиентов.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку сервисного слоя в HTTP-статус и тело ответа.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal;
//   - ErrBadRequest, service.ErrInvalidArgument -> 400;
//   - service.ErrNotFound, service.ErrSessionNotFound -> 404;
//   - context.Canceled -> 499, context.DeadlineExceeded -> 504;
//   - прочее -> 500/internal.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := http.StatusInternalServerError, "internal", "internal error"

	switch {
	case err == nil:
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidArgument):
		status, code, msg = http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, service.ErrSessionNotFound):
		status, code, msg = http.StatusNotFound, "session_not_found", "session not found"
	case errors.Is(err, service.ErrNotFound):
		status, code, msg = http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, context.Canceled):
		status, code, msg = StatusClientClosedRequest, "canceled", "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		status, code, msg = http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	}

	return status, ErrorResponse{Error: APIError{Code: code, Message: msg}}
}

// WriteError пишет статус и тело, добавляя request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
