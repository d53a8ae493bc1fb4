// Package api mounts the HTTP endpoints on a chi router.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/proposalkit/handler"
	"github.com/dmitrymomot/proposalkit/pkg/accounts"
	"github.com/dmitrymomot/proposalkit/pkg/billing"
	"github.com/dmitrymomot/proposalkit/pkg/credits"
	"github.com/dmitrymomot/proposalkit/pkg/httpserver"
	"github.com/dmitrymomot/proposalkit/pkg/jwt"
	"github.com/dmitrymomot/proposalkit/pkg/proposal"
	"github.com/dmitrymomot/proposalkit/pkg/requestid"
)

// Deps are the services the endpoints call.
type Deps struct {
	Accounts  accounts.Store
	Ledger    *credits.Ledger
	Proposals *proposal.Service
	Billing   *billing.Service
	Processor *billing.Processor
	Tokens    *jwt.Service
	Logger    *slog.Logger
	Readiness []func(context.Context) error

	// GeneratorHealth backs /health/generator. The route is not mounted
	// when it is nil.
	GeneratorHealth func(context.Context) error
}

type api struct {
	Deps
	onError handler.ErrorHandler
}

// NewRouter panics when a service in d is nil.
func NewRouter(d Deps) http.Handler {
	if d.Accounts == nil || d.Ledger == nil || d.Proposals == nil || d.Billing == nil || d.Processor == nil || d.Tokens == nil {
		panic("api: accounts, ledger, proposals, billing, processor and tokens are required")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	a := &api{
		Deps:    d,
		onError: handler.NewErrorHandler(d.Logger, domainErrors(d.Ledger.Config().ProQuota)),
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(d.Logger, d.Readiness...))
	if d.GeneratorHealth != nil {
		r.Get("/health/generator", wrap(a, a.generatorHealth))
	}

	r.Post("/billing/webhook", wrap(a, a.billingWebhook, webhookBinder()))

	r.Group(func(r chi.Router) {
		r.Use(jwt.Middleware(d.Tokens, a.rejectToken))
		r.Use(a.ensureAccount)

		r.Get("/me", wrap(a, a.getProfile))
		r.Get("/credits", wrap(a, a.getCredits))
		r.Post("/ai/generate-proposal", wrap(a, a.generateProposal, jsonBinder()))
		r.Get("/generations", wrap(a, a.listGenerations, queryBinder()))
		r.Get("/generations/{id}", wrap(a, a.getGeneration, pathBinder()))
		r.Post("/billing/checkout", wrap(a, a.createCheckout, jsonBinder()))
		r.Get("/billing/portal", wrap(a, a.createPortal))
	})

	return r
}

// wrap adapts a typed handler with the shared error handler.
func wrap[R any](a *api, h handler.HandlerFunc[R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[R](binders...),
		handler.WithErrorHandler[R](a.onError),
	)
}

func (a *api) rejectToken(w http.ResponseWriter, r *http.Request, err error) {
	a.onError(handler.NewContext(w, r), err)
}

