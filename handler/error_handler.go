package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/proposalkit/binder"
	"github.com/dmitrymomot/proposalkit/pkg/logger"
	"github.com/dmitrymomot/proposalkit/pkg/validator"
)

// ErrorMapper translates a domain error into an HTTPError. It returns false
// for errors it does not recognise.
type ErrorMapper func(err error) (HTTPError, bool)

// NewErrorHandler logs the error at a level matching its status (warn for
// 4xx, error for 5xx) and writes a JSON error envelope. Mappers run first,
// in order; the first match wins.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx Context, err error) {
		status, detail := classify(err, mappers)

		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		r := ctx.Request()
		log.LogAttrs(ctx, level, "request error",
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("http"),
		)

		resp := &jsonResponse{status: status, body: Envelope{Error: detail}}
		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(ctx, "failed to render error response", logger.Error(renderErr))
		}
	}
}

func classify(err error, mappers []ErrorMapper) (int, *ErrorDetail) {
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		details := make(map[string][]string, len(ve))
		for _, e := range ve {
			details[e.Field] = append(details[e.Field], e.Message)
		}
		return http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    ErrUnprocessableEntity.Key,
			Message: "validation failed",
			Details: details,
		}
	}

	httpErr, ok := mapError(err, mappers)
	if !ok {
		httpErr = ErrInternalServerError
	}
	msg := httpErr.Message
	if msg == "" {
		msg = http.StatusText(httpErr.Code)
	}
	return httpErr.Code, &ErrorDetail{Code: httpErr.Key, Message: msg}
}

func mapError(err error, mappers []ErrorMapper) (HTTPError, bool) {
	for _, m := range mappers {
		if h, ok := m(err); ok {
			return h, true
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}

	switch {
	case errors.Is(err, binder.ErrInvalidJSON),
		errors.Is(err, binder.ErrInvalidQuery),
		errors.Is(err, binder.ErrInvalidPath),
		errors.Is(err, binder.ErrMissingContentType):
		return ErrBadRequest.WithMessage(err.Error()), true
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		return NewHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type"), true
	}
	return HTTPError{}, false
}
