package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jimohammad/po-sub000/internal/shared"
)

// ErrPartyNotFound indicates the requested party id does not exist.
// Distinct from a zero balance: a party with no events is a valid,
// displayable zero result.
var ErrPartyNotFound = errors.New("ledger: party not found")

// Service derives balances and statements on demand.
type Service struct {
	source SourcePort
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(source SourcePort, logger *slog.Logger) *Service {
	return &Service{source: source, logger: logger}
}

// CurrentBalance sums the signed amounts of every ledger event for the
// party dated on or before asOf. A zero asOf means no upper bound.
// Every intermediate sum is rounded back to stored precision so the
// result is reproducible bit-for-bit given the same inputs.
func (s *Service) CurrentBalance(ctx context.Context, partyID int64, partyType PartyType, asOf time.Time, branchID int64) (decimal.Decimal, error) {
	if _, err := s.requireParty(ctx, partyID); err != nil {
		return decimal.Zero, err
	}

	b, err := s.fetch(ctx, partyID, partyType, shared.DateRange{To: asOf}, branchID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, e := range s.normalize(partyType, b) {
		if !asOf.IsZero() && e.Date.After(asOf) {
			continue
		}
		balance = round(balance.Add(e.Amount))
	}
	return balance, nil
}

// Statement returns the chronological view over an inclusive date
// range. Events strictly before the range start fold into a single
// synthetic brought-forward line dated at the range start; an event
// dated exactly on either bound is included.
func (s *Service) Statement(ctx context.Context, partyID int64, partyType PartyType, r shared.DateRange, branchID int64) (*Statement, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.requireParty(ctx, partyID); err != nil {
		return nil, err
	}

	// Fetch the full history up to the range end; pre-range rows are
	// needed for the brought-forward seed.
	b, err := s.fetch(ctx, partyID, partyType, r.UpperOnly(), branchID)
	if err != nil {
		return nil, err
	}
	entries := s.normalize(partyType, b)

	stmt := &Statement{PartyID: partyID, PartyType: partyType, Range: r}

	running := decimal.Zero
	var carried bool
	for _, e := range entries {
		if !r.To.IsZero() && e.Date.After(r.To) {
			continue
		}
		if !r.From.IsZero() && e.Date.Before(r.From) {
			running = round(running.Add(e.Amount))
			carried = true
			continue
		}
		if carried {
			// Emit the brought-forward line before the first in-range
			// entry. Present even when the carried sum nets to zero, so
			// the reader can tell "no history" from "history cancelling
			// out".
			stmt.Lines = append(stmt.Lines, StatementLine{
				Entry: Entry{
					Date:        r.From,
					Kind:        KindBroughtForward,
					Description: "Balance brought forward",
					Amount:      running,
				},
				Running: running,
			})
			carried = false
		}
		running = round(running.Add(e.Amount))
		stmt.Lines = append(stmt.Lines, StatementLine{Entry: e, Running: running})
	}
	if carried {
		// Range held no events of its own; the statement is exactly the
		// brought-forward row.
		stmt.Lines = append(stmt.Lines, StatementLine{
			Entry: Entry{
				Date:        r.From,
				Kind:        KindBroughtForward,
				Description: "Balance brought forward",
				Amount:      running,
			},
			Running: running,
		})
	}

	stmt.Closing = running
	return stmt, nil
}

// requireParty short-circuits with ErrPartyNotFound for unknown ids.
func (s *Service) requireParty(ctx context.Context, partyID int64) (*Party, error) {
	party, err := s.source.GetParty(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("ledger: get party %d: %w", partyID, err)
	}
	if party == nil {
		return nil, ErrPartyNotFound
	}
	return party, nil
}

// fetch retrieves every source collection affecting the party's side of
// the ledger. The queries are independent, so they run concurrently.
// The opening balance is always fetched regardless of range; the
// statement fold decides whether it appears as a line or inside the
// brought-forward seed.
func (s *Service) fetch(ctx context.Context, partyID int64, partyType PartyType, r shared.DateRange, branchID int64) (bundle, error) {
	var b bundle
	g, ctx := errgroup.WithContext(ctx)

	switch partyType {
	case PartyCustomer:
		g.Go(func() error {
			rows, err := s.source.ListSales(ctx, partyID, r, branchID)
			b.sales = rows
			return err
		})
		g.Go(func() error {
			rows, err := s.source.ListPayments(ctx, partyID, DirectionIn, r, branchID)
			b.paymentsIn = rows
			return err
		})
		g.Go(func() error {
			rows, err := s.source.ListReturns(ctx, partyID, ReturnOfSale, r, branchID)
			b.returns = rows
			return err
		})
	case PartySupplier:
		g.Go(func() error {
			rows, err := s.source.ListPurchases(ctx, partyID, r, branchID)
			b.purchases = rows
			return err
		})
		g.Go(func() error {
			rows, err := s.source.ListPayments(ctx, partyID, DirectionOut, r, branchID)
			b.paymentsOut = rows
			return err
		})
		g.Go(func() error {
			rows, err := s.source.ListReturns(ctx, partyID, ReturnOfPurchase, r, branchID)
			b.returns = rows
			return err
		})
	}
	g.Go(func() error {
		opening, err := s.source.GetOpeningBalance(ctx, partyID, branchID)
		b.opening = opening
		return err
	})

	if err := g.Wait(); err != nil {
		return bundle{}, fmt.Errorf("ledger: fetch events: %w", err)
	}
	return b, nil
}
