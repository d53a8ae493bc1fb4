// Package proposal implements the "generate proposal" use case: a validated
// client brief is turned into a proposal by the text generator, behind the
// credit gate, and stored in the account's generation history.
package proposal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/proposalkit/pkg/entitlement"
	"github.com/dmitrymomot/proposalkit/pkg/generations"
	"github.com/dmitrymomot/proposalkit/pkg/generator"
	"github.com/dmitrymomot/proposalkit/pkg/logger"
)

// RecordType tags generation records written by this package.
const RecordType = "proposal"

type Result struct {
	ID          uuid.UUID `json:"id"`
	Output      string    `json:"output"`
	CreditsUsed int64     `json:"creditsUsed"`
}

type Service struct {
	gate    *entitlement.Gate
	gen     generator.Generator
	records generations.Store
	logger  *slog.Logger
}

func NewService(gate *entitlement.Gate, gen generator.Generator, records generations.Store, log *slog.Logger) *Service {
	if gate == nil || gen == nil || records == nil {
		panic("proposal: gate, generator and record store are required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		gate:    gate,
		gen:     gen,
		records: records,
		logger:  log.With(logger.Component("proposal")),
	}
}

// Generate writes a proposal for the brief. The account is charged one credit
// only after the proposal was generated and stored.
func (s *Service) Generate(ctx context.Context, accountID uuid.UUID, req Request) (*Result, error) {
	if accountID == uuid.Nil {
		return nil, entitlement.ErrUnauthenticated
	}
	req = req.normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return entitlement.Run(ctx, s.gate, accountID, func(ctx context.Context) (*Result, error) {
		output, err := s.gen.GenerateText(ctx, BuildPrompt(req))
		if err != nil {
			s.logger.WarnContext(ctx, "proposal generation failed",
				logger.AccountID(accountID), logger.Error(err))
			return nil, err
		}

		input, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("marshal proposal input: %w", err)
		}
		rec := &generations.Record{
			AccountID:   accountID,
			Type:        RecordType,
			Title:       req.Title(),
			Input:       input,
			Output:      output,
			CreditsUsed: entitlement.Cost,
		}
		if err := s.records.Create(ctx, rec); err != nil {
			return nil, errors.Join(ErrSaveFailed, err)
		}

		return &Result{ID: rec.ID, Output: output, CreditsUsed: entitlement.Cost}, nil
	})
}

// List returns the account's generation history, newest first.
func (s *Service) List(ctx context.Context, accountID uuid.UUID, page, limit int) (*generations.Page, error) {
	if accountID == uuid.Nil {
		return nil, entitlement.ErrUnauthenticated
	}
	return s.records.ListByAccount(ctx, accountID, page, limit)
}

// Get returns one of the account's generations.
func (s *Service) Get(ctx context.Context, accountID, id uuid.UUID) (*generations.Record, error) {
	if accountID == uuid.Nil {
		return nil, entitlement.ErrUnauthenticated
	}
	return s.records.FindOneByAccount(ctx, id, accountID)
}
