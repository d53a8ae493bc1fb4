package requestid_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/proposalkit/pkg/logger"
	"github.com/dmitrymomot/proposalkit/pkg/requestid"
)

func serve(t *testing.T, header string) (string, string) {
	t.Helper()
	var seen string
	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(requestid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates id when missing", func(t *testing.T) {
		t.Parallel()
		seen, header := serve(t, "")
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, header)
	})

	t.Run("keeps valid inbound id", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{"abc123", "req_1-A", "550e8400-e29b-41d4-a716-446655440000"} {
			seen, header := serve(t, id)
			assert.Equal(t, id, seen)
			assert.Equal(t, id, header)
		}
	})

	t.Run("replaces malformed inbound id", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{"with space", "a/b", "<script>", strings.Repeat("a", 129)} {
			seen, header := serve(t, id)
			assert.NotEqual(t, id, seen)
			assert.NotEmpty(t, seen)
			assert.Equal(t, seen, header)
		}
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, requestid.FromContext(context.Background()))
	assert.Equal(t, "id-1", requestid.FromContext(requestid.WithContext(context.Background(), "id-1")))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithLevel(slog.LevelInfo),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	log.InfoContext(requestid.WithContext(context.Background(), "req-42"), "handled")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}
