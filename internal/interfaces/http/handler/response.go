package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/interfaces/http/middleware"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// errorResponse - тело ответа с ошибкой
type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, payload any) {
	middleware.WriteJSON(w, status, payload)
}

// writeError переводит ошибки домена в HTTP статусы; неизвестные ошибки логируются как 500
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	requestID := middleware.RequestIDFrom(r.Context())

	var validationErr *entity.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:     validationErr.Message,
			Field:     validationErr.Field,
			RequestID: requestID,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", RequestID: requestID})
	case errors.Is(err, repository.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "already exists", RequestID: requestID})
	default:
		log.Error("Request failed", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error", RequestID: requestID})
	}
}

// decodeJSON читает тело (не больше limit байт) и проверяет теги validate
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dest any) error {
	if limit <= 0 {
		limit = 1 << 20
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := decoder.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return &entity.ValidationError{Field: "body", Message: fmt.Sprintf("must be at most %d bytes", maxErr.Limit)}
		case errors.Is(err, io.EOF):
			return &entity.ValidationError{Field: "body", Message: "is required"}
		default:
			return &entity.ValidationError{Field: "body", Message: "invalid JSON: " + err.Error()}
		}
	}

	return validateStruct(dest)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return &entity.ValidationError{
			Field:   jsonFieldName(first.Namespace()),
			Message: fmt.Sprintf("failed on %q rule", first.Tag()),
		}
	}
	// InvalidValidationError - не структура, проверять нечего
	return nil
}

// jsonFieldName: "ProjectInput.Tags[2]" -> "tags[2]"
func jsonFieldName(namespace string) string {
	_, field, found := strings.Cut(namespace, ".")
	if !found {
		field = namespace
	}
	var b strings.Builder
	for i, part := range strings.Split(field, ".") {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(toSnake(part))
	}
	return b.String()
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] != '[' {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
