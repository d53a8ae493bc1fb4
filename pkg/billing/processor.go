package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/proposalkit/pkg/accounts"
	"github.com/dmitrymomot/proposalkit/pkg/logger"
)

// CreditResetter is the part of the credit ledger that plan changes touch.
type CreditResetter interface {
	UpgradeCredits(ctx context.Context, accountID uuid.UUID) error
	DowngradeCredits(ctx context.Context, accountID uuid.UUID) error
}

// Processor applies verified webhook events.
type Processor struct {
	provider Provider
	accounts accounts.Store
	subs     SubscriptionStore
	credits  CreditResetter
	dedupe   Deduplicator
	logger   *slog.Logger
}

type ProcessorOption func(*Processor)

// WithDeduplicator skips events whose id was already processed.
func WithDeduplicator(d Deduplicator) ProcessorOption {
	return func(p *Processor) {
		p.dedupe = d
	}
}

func WithProcessorLogger(log *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if log != nil {
			p.logger = log
		}
	}
}

// NewProcessor panics if a dependency is nil.
func NewProcessor(provider Provider, accts accounts.Store, subs SubscriptionStore, credits CreditResetter, opts ...ProcessorOption) *Processor {
	if provider == nil {
		panic("billing: provider is required")
	}
	if accts == nil {
		panic("billing: account store is required")
	}
	if subs == nil {
		panic("billing: subscription store is required")
	}
	if credits == nil {
		panic("billing: credit ledger is required")
	}

	p := &Processor{
		provider: provider,
		accounts: accts,
		subs:     subs,
		credits:  credits,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(logger.Component("billing"))
	return p
}

// ProcessWebhookEvent verifies, decodes and applies one webhook delivery.
// Verification failures return ErrWebhookVerificationFailed with no effects;
// any other error means the delivery should be retried.
func (p *Processor) ProcessWebhookEvent(ctx context.Context, payload []byte, signature string) error {
	ev, err := p.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		if errors.Is(err, ErrWebhookVerificationFailed) {
			p.logger.WarnContext(ctx, "webhook rejected", logger.Error(err))
		}
		return err
	}

	log := p.logger.With(logger.EventID(ev.EventID()), logger.EventType(ev.EventType()))

	if p.dedupe != nil && ev.EventID() != "" {
		seen, err := p.dedupe.Seen(ctx, ev.EventID())
		if err != nil {
			return fmt.Errorf("check processed event: %w", err)
		}
		if seen {
			log.InfoContext(ctx, "webhook event already processed")
			return nil
		}
	}

	if err := p.Apply(ctx, ev); err != nil {
		log.ErrorContext(ctx, "failed to apply webhook event", logger.Error(err))
		return err
	}

	if p.dedupe != nil && ev.EventID() != "" {
		if err := p.dedupe.Mark(ctx, ev.EventID()); err != nil {
			log.WarnContext(ctx, "failed to mark webhook event as processed", logger.Error(err))
		}
	}
	return nil
}

// Apply runs the effects of a decoded event.
func (p *Processor) Apply(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case CheckoutCompleted:
		return p.checkoutCompleted(ctx, e)
	case SubscriptionUpdated:
		return p.subscriptionUpdated(ctx, e)
	case SubscriptionDeleted:
		return p.subscriptionDeleted(ctx, e)
	case InvoicePaid:
		return p.invoicePaid(ctx, e)
	default:
		p.logger.DebugContext(ctx, "ignoring webhook event", logger.EventType(ev.EventType()))
		return nil
	}
}

func (p *Processor) checkoutCompleted(ctx context.Context, e CheckoutCompleted) error {
	if e.AccountID == uuid.Nil || e.SubscriptionID == "" {
		p.logger.WarnContext(ctx, "checkout completed without account or subscription reference",
			logger.EventID(e.ID))
		return nil
	}

	acct, err := p.accounts.FindByID(ctx, e.AccountID)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			p.logger.WarnContext(ctx, "checkout completed for unknown account",
				logger.EventID(e.ID), logger.AccountID(e.AccountID))
			return nil
		}
		return fmt.Errorf("find account: %w", err)
	}

	sub, err := p.provider.RetrieveSubscription(ctx, e.SubscriptionID)
	if err != nil {
		return fmt.Errorf("retrieve subscription: %w", err)
	}

	if err := p.subs.Upsert(ctx, &Subscription{
		AccountID:              acct.ID,
		ProviderSubscriptionID: sub.ID,
		ProviderPriceID:        sub.PriceID,
		Plan:                   accounts.PlanPro,
		Status:                 sub.Status,
		CurrentPeriodStart:     sub.CurrentPeriodStart,
		CurrentPeriodEnd:       sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:      sub.CancelAtPeriodEnd,
	}); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	if acct.BillingCustomerID == "" && e.CustomerID != "" {
		if err := p.accounts.UpdateBillingCustomerID(ctx, acct.ID, e.CustomerID); err != nil {
			return fmt.Errorf("store billing customer: %w", err)
		}
	}
	if err := p.accounts.UpdatePlan(ctx, acct.ID, accounts.PlanPro); err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if err := p.credits.UpgradeCredits(ctx, acct.ID); err != nil {
		return fmt.Errorf("upgrade credits: %w", err)
	}

	p.logger.InfoContext(ctx, "account upgraded",
		logger.AccountID(acct.ID), logger.SubscriptionID(sub.ID), logger.Plan(accounts.PlanPro))
	return nil
}

func (p *Processor) subscriptionUpdated(ctx context.Context, e SubscriptionUpdated) error {
	acct, ok, err := p.resolveCustomer(ctx, e.CustomerID, e.ID)
	if err != nil || !ok {
		return err
	}

	plan := planForStatus(e.Subscription.Status)
	if err := p.subs.Upsert(ctx, &Subscription{
		AccountID:              acct.ID,
		ProviderSubscriptionID: e.Subscription.ID,
		ProviderPriceID:        e.Subscription.PriceID,
		Plan:                   plan,
		Status:                 e.Subscription.Status,
		CurrentPeriodStart:     e.Subscription.CurrentPeriodStart,
		CurrentPeriodEnd:       e.Subscription.CurrentPeriodEnd,
		CancelAtPeriodEnd:      e.Subscription.CancelAtPeriodEnd,
	}); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	if err := p.accounts.UpdatePlan(ctx, acct.ID, plan); err != nil {
		return fmt.Errorf("update plan: %w", err)
	}

	p.logger.InfoContext(ctx, "subscription updated",
		logger.AccountID(acct.ID),
		logger.SubscriptionID(e.Subscription.ID),
		logger.Plan(plan),
		slog.String("status", e.Subscription.Status),
	)
	return nil
}

func (p *Processor) subscriptionDeleted(ctx context.Context, e SubscriptionDeleted) error {
	acct, ok, err := p.resolveCustomer(ctx, e.CustomerID, e.ID)
	if err != nil || !ok {
		return err
	}

	sub, err := p.subs.FindByProviderID(ctx, e.SubscriptionID)
	switch {
	case errors.Is(err, ErrSubscriptionNotFound):
		sub = &Subscription{AccountID: acct.ID, ProviderSubscriptionID: e.SubscriptionID}
	case err != nil:
		return fmt.Errorf("find subscription: %w", err)
	}
	sub.Status = StatusCanceled
	sub.Plan = accounts.PlanFree
	if err := p.subs.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	if err := p.accounts.UpdatePlan(ctx, acct.ID, accounts.PlanFree); err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if err := p.credits.DowngradeCredits(ctx, acct.ID); err != nil {
		return fmt.Errorf("downgrade credits: %w", err)
	}

	p.logger.InfoContext(ctx, "account downgraded",
		logger.AccountID(acct.ID), logger.SubscriptionID(e.SubscriptionID), logger.Plan(accounts.PlanFree))
	return nil
}

func (p *Processor) invoicePaid(ctx context.Context, e InvoicePaid) error {
	acct, ok, err := p.resolveCustomer(ctx, e.CustomerID, e.ID)
	if err != nil || !ok {
		return err
	}
	if acct.Plan != accounts.PlanPro {
		p.logger.InfoContext(ctx, "renewal for account without paid plan ignored",
			logger.AccountID(acct.ID), logger.Plan(acct.Plan))
		return nil
	}

	if err := p.credits.UpgradeCredits(ctx, acct.ID); err != nil {
		return fmt.Errorf("renew credits: %w", err)
	}
	p.logger.InfoContext(ctx, "credits renewed",
		logger.AccountID(acct.ID), logger.SubscriptionID(e.SubscriptionID))
	return nil
}

// resolveCustomer reports ok=false for customers that map to no account.
func (p *Processor) resolveCustomer(ctx context.Context, customerID, eventID string) (*accounts.Account, bool, error) {
	acct, err := p.accounts.FindByBillingCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			p.logger.WarnContext(ctx, "webhook event for unknown customer",
				logger.EventID(eventID), slog.String("customer_id", customerID))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("find account by customer: %w", err)
	}
	return acct, true, nil
}
