package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{name: "validation", err: &entity.ValidationError{Field: "domain", Message: "is required"}, status: http.StatusBadRequest, field: "domain"},
		{name: "wrapped not found", err: fmt.Errorf("failed to fetch project: %w", repository.ErrNotFound), status: http.StatusNotFound},
		{name: "conflict", err: fmt.Errorf("save: %w", repository.ErrConflict), status: http.StatusConflict},
		{name: "unknown", err: errors.New("db is on fire"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/1", nil)

			writeError(rec, req, logger.NewWithOptions("error", "text", &logs), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.field, body.Field)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", body.Error)
				assert.Contains(t, logs.String(), "db is on fire")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	decode := func(body string, limit int64) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var input dto.ProjectInput
		return decodeJSON(httptest.NewRecorder(), req, limit, &input)
	}

	var validationErr *entity.ValidationError

	require.ErrorAs(t, decode("", 0), &validationErr)
	assert.Equal(t, "body", validationErr.Field)

	require.ErrorAs(t, decode("{", 0), &validationErr)
	assert.Contains(t, validationErr.Message, "invalid JSON")

	require.ErrorAs(t, decode(`{"name":"n","domain":"`+strings.Repeat("d", 100)+`"}`, 32), &validationErr)
	assert.Contains(t, validationErr.Message, "at most 32 bytes")

	require.ErrorAs(t, decode(`{"domain":"a.example"}`, 0), &validationErr)
	assert.Equal(t, "name", validationErr.Field)

	require.ErrorAs(t, decode(`{"name":"n","domain":"a.example","adsense_status":"approved"}`, 0), &validationErr)
	assert.Equal(t, "adsense_status", validationErr.Field)

	assert.NoError(t, decode(`{"name":"n","domain":"a.example","tags":["x"]}`, 0))
}

func TestJSONFieldName(t *testing.T) {
	assert.Equal(t, "name", jsonFieldName("ProjectInput.Name"))
	assert.Equal(t, "last_content_update", jsonFieldName("ProjectInput.LastContentUpdate"))
	assert.Equal(t, "tags[2]", jsonFieldName("ProjectInput.Tags[2]"))
}

func TestSystemReadyz(t *testing.T) {
	h := NewSystemHandler(map[string]Pinger{
		"database": pingerFunc(func() error { return nil }),
		"redis":    pingerFunc(func() error { return errors.New("connection refused") }),
	})

	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "connection refused")
	assert.Contains(t, string(body), `"database":"ok"`)
}
