package handler_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/proposalkit/binder"
	"github.com/dmitrymomot/proposalkit/handler"
	"github.com/dmitrymomot/proposalkit/pkg/validator"
)

type createRequest struct {
	Name string `json:"name"`
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) handler.Envelope {
	t.Helper()
	var env handler.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWrap(t *testing.T) {
	t.Parallel()

	errHandler := handler.NewErrorHandler(quiet())

	t.Run("binds and renders JSON", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(_ handler.Context, req createRequest) handler.Response {
			return handler.JSON(map[string]string{"hello": req.Name}, handler.WithStatus(http.StatusCreated))
		}, handler.WithBinders[createRequest](binder.JSON()), handler.WithErrorHandler[createRequest](errHandler))

		rec := post(h, `{"name":"acme"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		env := decode(t, rec)
		assert.Equal(t, map[string]any{"hello": "acme"}, env.Data)
		assert.Nil(t, env.Error)
	})

	t.Run("binder error is a 400", func(t *testing.T) {
		t.Parallel()
		called := false
		h := handler.Wrap(func(handler.Context, createRequest) handler.Response {
			called = true
			return handler.Empty(http.StatusNoContent)
		}, handler.WithBinders[createRequest](binder.JSON()), handler.WithErrorHandler[createRequest](errHandler))

		rec := post(h, `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, called)
		assert.Equal(t, "bad_request", decode(t, rec).Error.Code)
	})

	t.Run("validation errors are a 422 with details", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(_ handler.Context, req createRequest) handler.Response {
			if err := validator.Apply(validator.MinLen("name", req.Name, 3)); err != nil {
				return handler.Fail(err)
			}
			return handler.Empty(http.StatusNoContent)
		}, handler.WithBinders[createRequest](binder.JSON()), handler.WithErrorHandler[createRequest](errHandler))

		rec := post(h, `{"name":"ab"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decode(t, rec)
		require.NotNil(t, env.Error)
		assert.Equal(t, "validation_error", env.Error.Code)
		assert.Contains(t, env.Error.Details, "name")
	})

	t.Run("http error keeps status and message", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(handler.Context, struct{}) handler.Response {
			return handler.Fail(handler.ErrForbidden.WithMessage("no credits"))
		})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		env := decode(t, rec)
		assert.Equal(t, "forbidden", env.Error.Code)
		assert.Equal(t, "no credits", env.Error.Message)
	})

	t.Run("unknown error is a 500", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(handler.Context, struct{}) handler.Response {
			return handler.Fail(errors.New("db exploded"))
		}, handler.WithErrorHandler[struct{}](errHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		env := decode(t, rec)
		assert.Equal(t, "internal_error", env.Error.Code)
		assert.NotContains(t, env.Error.Message, "db exploded")
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(handler.Context, struct{}) handler.Response { return nil },
			handler.WithErrorHandler[struct{}](errHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		mark := func(name string) handler.Decorator[struct{}] {
			return func(next handler.HandlerFunc[struct{}]) handler.HandlerFunc[struct{}] {
				return func(ctx handler.Context, req struct{}) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.Wrap(func(handler.Context, struct{}) handler.Response {
			order = append(order, "handler")
			return handler.Empty(http.StatusNoContent)
		}, handler.WithDecorators(mark("outer"), mark("inner")))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	})
}

func TestErrorMappers(t *testing.T) {
	t.Parallel()

	errDomain := errors.New("record not found")
	mapper := func(err error) (handler.HTTPError, bool) {
		if errors.Is(err, errDomain) {
			return handler.ErrNotFound, true
		}
		return handler.HTTPError{}, false
	}

	h := handler.Wrap(func(handler.Context, struct{}) handler.Response {
		return handler.Fail(errDomain)
	}, handler.WithErrorHandler[struct{}](handler.NewErrorHandler(quiet(), mapper)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec).Error.Code)
}
