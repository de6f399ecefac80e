package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsAppErrorPassesThrough(t *testing.T) {
	base := errors.New("boom")
	appErr := NewAppError("CONFLICT", "conflict", http.StatusConflict, base)
	wrapped := errors.Join(errors.New("context"), appErr)

	got := AsAppError(wrapped)
	require.Same(t, appErr, got)
	require.ErrorIs(t, got, base)
}

func TestAsAppErrorFallsBackToInternal(t *testing.T) {
	got := AsAppError(errors.New("db exploded"))
	require.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	require.Equal(t, "INTERNAL", got.Code)
	require.Equal(t, "internal server error", got.Message)
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, nil).WithDetails(map[string]string{"field": "price"}))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "BAD_REQUEST", body.Error.Code)
	require.Equal(t, "invalid payload", body.Error.Message)
	require.Equal(t, map[string]any{"field": "price"}, body.Error.Details)
}
