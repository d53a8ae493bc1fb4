package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/proposalkit/handler"
	"github.com/dmitrymomot/proposalkit/pkg/accounts"
	"github.com/dmitrymomot/proposalkit/pkg/billing"
	"github.com/dmitrymomot/proposalkit/pkg/credits"
	"github.com/dmitrymomot/proposalkit/pkg/entitlement"
	"github.com/dmitrymomot/proposalkit/pkg/generations"
	"github.com/dmitrymomot/proposalkit/pkg/generator"
	"github.com/dmitrymomot/proposalkit/pkg/jwt"
)

var (
	errAuthRequired = handler.ErrUnauthorized.WithMessage("Authentication required")
	errNotFound     = handler.ErrNotFound.WithMessage("Generation not found")
)

// domainErrors maps package sentinels onto HTTP errors. proQuota is quoted in
// the no-credits message.
func domainErrors(proQuota int64) handler.ErrorMapper {
	noCredits := handler.NewHTTPError(http.StatusForbidden, "no_credits").
		WithMessage(fmt.Sprintf("No credits remaining. Upgrade to Pro for %d credits/month.", proQuota))

	return func(err error) (handler.HTTPError, bool) {
		switch {
		case errors.Is(err, entitlement.ErrUnauthenticated),
			errors.Is(err, jwt.ErrMissingToken),
			errors.Is(err, jwt.ErrInvalidToken),
			errors.Is(err, jwt.ErrInvalidSubject):
			return errAuthRequired, true

		case errors.Is(err, entitlement.ErrNoCredits):
			return noCredits, true
		case errors.Is(err, credits.ErrInsufficientCredits):
			return handler.NewHTTPError(http.StatusForbidden, "insufficient_credits").
				WithMessage("Insufficient credits. Please upgrade your plan or wait for monthly reset."), true

		case errors.Is(err, generations.ErrNotFound):
			return errNotFound, true
		case errors.Is(err, accounts.ErrAccountNotFound):
			return handler.ErrNotFound.WithMessage("Account not found"), true
		case errors.Is(err, accounts.ErrAccountExists):
			return handler.NewHTTPError(http.StatusConflict, "account_exists").
				WithMessage("Email is already registered to another account"), true

		case errors.Is(err, generator.ErrMisconfigured):
			return handler.ErrInternalServerError, true
		case errors.Is(err, generator.ErrTimeout):
			return handler.ErrServiceUnavailable.WithMessage("Generation took too long. Try again or reduce the scope."), true
		case errors.Is(err, generator.ErrRateLimited):
			return handler.ErrServiceUnavailable.WithMessage("Generation rate limit exceeded. Try again in a few seconds."), true
		case generator.IsRetryable(err):
			return handler.ErrServiceUnavailable.WithMessage("Proposal generation is temporarily unavailable. Try again."), true

		case errors.Is(err, billing.ErrWebhookVerificationFailed):
			return handler.ErrBadRequest.WithMessage("Invalid webhook signature"), true
		case errors.Is(err, billing.ErrInvalidWebhookPayload):
			return handler.ErrBadRequest.WithMessage("Invalid webhook payload"), true
		case errors.Is(err, billing.ErrInvalidPlan):
			return handler.ErrBadRequest.WithMessage("Invalid plan"), true
		case errors.Is(err, billing.ErrNoBillingCustomer):
			return handler.ErrBadRequest.WithMessage("No billing customer found"), true
		case errors.Is(err, billing.ErrProvider),
			errors.Is(err, billing.ErrNoCheckoutURL),
			errors.Is(err, billing.ErrNoPortalURL):
			return handler.NewHTTPError(http.StatusBadGateway, "billing_provider_error"), true
		}
		return handler.HTTPError{}, false
	}
}
