package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		write     bool
		wantMsg   string
		wantLevel zapcore.Level
	}{
		{name: "implicit ok", write: true, wantMsg: "request completed", wantLevel: zapcore.DebugLevel},
		{name: "not found", status: http.StatusNotFound, wantMsg: "request completed", wantLevel: zapcore.DebugLevel},
		{name: "server error", status: http.StatusInternalServerError, wantMsg: "request failed", wantLevel: zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			h := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				if tt.write {
					w.Write([]byte("{}"))
				}
			}))

			req := httptest.NewRequest(http.MethodGet, "/manifest?locale=fr", nil)
			h.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantMsg, entries[0].Message)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			fields := entries[0].ContextMap()
			assert.Equal(t, "GET", fields["method"])
			assert.Equal(t, "/manifest", fields["path"])
			want := tt.status
			if want == 0 {
				want = http.StatusOK
			}
			assert.EqualValues(t, want, fields["status"])
		})
	}
}

func TestLogging_NilLogger(t *testing.T) {
	h := Logging(nil)(okHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "ok", w.Body.String())
}

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	rec.WriteHeader(http.StatusAccepted)
	rec.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusAccepted, rec.status)
	assert.NotNil(t, rec.Unwrap())

	_, _, err := rec.Hijack()
	assert.Error(t, err)
}
