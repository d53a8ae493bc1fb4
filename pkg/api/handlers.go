package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/proposalkit/handler"
	"github.com/dmitrymomot/proposalkit/pkg/accounts"
	"github.com/dmitrymomot/proposalkit/pkg/generations"
	"github.com/dmitrymomot/proposalkit/pkg/jwt"
	"github.com/dmitrymomot/proposalkit/pkg/proposal"
)

type noRequest struct{}

type profile struct {
	ID                 uuid.UUID     `json:"id"`
	Email              string        `json:"email"`
	Plan               accounts.Plan `json:"plan"`
	HasBillingCustomer bool          `json:"hasBillingCustomer"`
	CreatedAt          time.Time     `json:"createdAt"`
}

func (a *api) getProfile(ctx handler.Context, _ noRequest) handler.Response {
	acc, err := a.Accounts.FindByID(ctx, jwt.AccountIDFromContext(ctx))
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(profile{
		ID:                 acc.ID,
		Email:              acc.Email,
		Plan:               acc.Plan,
		HasBillingCustomer: acc.BillingCustomerID != "",
		CreatedAt:          acc.CreatedAt,
	})
}

func (a *api) getCredits(ctx handler.Context, _ noRequest) handler.Response {
	balance, err := a.Ledger.GetCredits(ctx, jwt.AccountIDFromContext(ctx))
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(balance)
}

func (a *api) generateProposal(ctx handler.Context, req proposal.Request) handler.Response {
	res, err := a.Proposals.Generate(ctx, jwt.AccountIDFromContext(ctx), req)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(res, handler.WithStatus(http.StatusCreated))
}

type listRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

func (a *api) listGenerations(ctx handler.Context, req listRequest) handler.Response {
	page, err := a.Proposals.List(ctx, jwt.AccountIDFromContext(ctx), req.Page, req.Limit)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(page.Items, handler.WithMeta(map[string]any{
		"total":      page.Total,
		"page":       page.Page,
		"limit":      page.Limit,
		"totalPages": page.TotalPages,
	}))
}

type getRequest struct {
	ID string `path:"id"`
}

func (a *api) getGeneration(ctx handler.Context, req getRequest) handler.Response {
	// Malformed ids look exactly like missing ones.
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return handler.Fail(generations.ErrNotFound)
	}
	rec, err := a.Proposals.Get(ctx, jwt.AccountIDFromContext(ctx), id)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(rec)
}

type checkoutRequest struct {
	Plan string `json:"plan"`
}

func (a *api) createCheckout(ctx handler.Context, req checkoutRequest) handler.Response {
	session, err := a.Billing.CreateCheckoutSession(ctx, jwt.AccountIDFromContext(ctx), req.Plan)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(session)
}

func (a *api) createPortal(ctx handler.Context, _ noRequest) handler.Response {
	url, err := a.Billing.CreatePortalSession(ctx, jwt.AccountIDFromContext(ctx))
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(map[string]string{"url": url})
}

func (a *api) billingWebhook(ctx handler.Context, req webhookRequest) handler.Response {
	if err := a.Processor.ProcessWebhookEvent(ctx, req.Payload, req.Signature); err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(map[string]bool{"received": true})
}

func (a *api) generatorHealth(ctx handler.Context, _ noRequest) handler.Response {
	if err := a.GeneratorHealth(ctx); err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(map[string]string{"status": "ok"})
}
