package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/proposalkit/handler"
	"github.com/dmitrymomot/proposalkit/pkg/accounts"
	"github.com/dmitrymomot/proposalkit/pkg/entitlement"
	"github.com/dmitrymomot/proposalkit/pkg/jwt"
	"github.com/dmitrymomot/proposalkit/pkg/logger"
)

// ensureAccount rejects anonymous requests and registers a principal on its
// first request: the account is created from the token claims and provisioned
// with the free quota.
func (a *api) ensureAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		claims, ok := jwt.ClaimsFromContext(ctx)
		id := jwt.AccountIDFromContext(ctx)
		if !ok || id == uuid.Nil {
			a.onError(handler.NewContext(w, r), jwt.ErrMissingToken)
			return
		}
		if err := a.register(ctx, id, claims.Email); err != nil {
			a.onError(handler.NewContext(w, r), err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *api) register(ctx context.Context, id uuid.UUID, email string) error {
	_, err := a.Accounts.FindByID(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, accounts.ErrAccountNotFound) {
		return err
	}
	if email == "" {
		return entitlement.ErrUnauthenticated
	}

	err = a.Accounts.Create(ctx, &accounts.Account{ID: id, Email: email})
	if errors.Is(err, accounts.ErrAccountExists) {
		// A concurrent first request may have won; any other owner of the
		// email is a conflict.
		if _, findErr := a.Accounts.FindByID(ctx, id); findErr != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if err := a.Ledger.Provision(ctx, id); err != nil {
		return err
	}
	a.Logger.InfoContext(ctx, "account registered", logger.AccountID(id))
	return nil
}
