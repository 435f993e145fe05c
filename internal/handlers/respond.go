package handlers

import (
	"BrainrotKeeper/internal/export"
	"BrainrotKeeper/internal/inventory"
	"BrainrotKeeper/internal/middleware"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// statusFor переводит ошибки домена в HTTP-коды.
func statusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrDuplicateName), errors.Is(err, inventory.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrValidation), errors.Is(err, export.ErrBadCSV):
		return http.StatusBadRequest
	case errors.Is(err, inventory.ErrStorage):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError пишет ошибку сервиса. Текст внутренних ошибок клиенту не отдаётся.
func respondError(w http.ResponseWriter, log *zap.SugaredLogger, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch {
	case status >= http.StatusInternalServerError:
		log.Errorw(op+": service error", "error", err)
		if status == http.StatusServiceUnavailable {
			msg = "storage unavailable, retry later"
		} else {
			msg = "internal error"
		}
	default:
		log.Debugw(op+": rejected", "status", status, "error", err)
	}
	respondMessage(w, status, msg)
}

// decodeAndValidate читает JSON-тело и проверяет теги validate.
// При ошибке ответ уже записан.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid request",
			Fields: FormatValidationError(err),
		})
		return false
	}
	return true
}

// FormatValidationError превращает ошибки валидатора в карту поле → сообщение.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}
	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}
	return errs
}

// requireUser отвечает 401, если WithAuth не нашёл пользователя.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identity(r *http.Request) string {
	id, _ := middleware.GetUserIDFromContext(r.Context())
	return id
}

// urlParam возвращает раскодированный параметр маршрута.
// chi сопоставляет по RawPath, только если он задан; иначе параметр уже раскодирован.
func urlParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}
