package billing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/proposalkit/pkg/accounts"
	"github.com/dmitrymomot/proposalkit/pkg/logger"
)

// Service starts provider-hosted checkout and portal flows for an account.
type Service struct {
	provider Provider
	accounts accounts.Store
	cfg      Config
	logger   *slog.Logger
}

func NewService(provider Provider, accts accounts.Store, cfg Config, log *slog.Logger) *Service {
	if provider == nil {
		panic("billing: provider is required")
	}
	if accts == nil {
		panic("billing: account store is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		provider: provider,
		accounts: accts,
		cfg:      cfg,
		logger:   log.With(logger.Component("billing")),
	}
}

// CreateCheckoutSession starts a checkout for plan, which must be "pro". The
// provider customer is created and stored on the account's first checkout.
func (s *Service) CreateCheckoutSession(ctx context.Context, accountID uuid.UUID, plan string) (*CheckoutSession, error) {
	if accounts.Plan(plan) != accounts.PlanPro {
		return nil, ErrInvalidPlan
	}
	if s.cfg.ProPriceID == "" {
		return nil, ErrMissingPriceID
	}

	acct, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	customerID := acct.BillingCustomerID
	if customerID == "" {
		customerID, err = s.provider.CreateCustomer(ctx, acct.Email, map[string]string{
			MetadataAccountID: acct.ID.String(),
		})
		if err != nil {
			return nil, err
		}
		if err := s.accounts.UpdateBillingCustomerID(ctx, acct.ID, customerID); err != nil {
			return nil, fmt.Errorf("store billing customer: %w", err)
		}
		s.logger.InfoContext(ctx, "billing customer created",
			logger.AccountID(acct.ID), logger.CustomerID(customerID))
	}

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		CustomerID: customerID,
		PriceID:    s.cfg.ProPriceID,
		SuccessURL: s.frontendURL("/dashboard?success=true"),
		CancelURL:  s.frontendURL("/pricing?canceled=true"),
		Metadata:   map[string]string{MetadataAccountID: acct.ID.String()},
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// CreatePortalSession returns the provider's self-service portal URL.
func (s *Service) CreatePortalSession(ctx context.Context, accountID uuid.UUID) (string, error) {
	acct, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	if acct.BillingCustomerID == "" {
		return "", ErrNoBillingCustomer
	}
	return s.provider.CreatePortalSession(ctx, acct.BillingCustomerID, s.frontendURL("/dashboard"))
}

func (s *Service) frontendURL(path string) string {
	return strings.TrimRight(s.cfg.FrontendURL, "/") + path
}
