package ledger

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
)

// bundle groups the extractor output for one party before normalization.
type bundle struct {
	sales       []SourceRow
	purchases   []SourceRow
	paymentsIn  []SourceRow
	paymentsOut []SourceRow
	returns     []ReturnRow
	opening     *OpeningRow
}

// normalize converts the heterogeneous collections into one sequence of
// signed entries, sorted by date then sequence. The final scalar does
// not depend on the order (addition commutes); the order only fixes the
// intermediate running-balance values shown in a statement.
func (s *Service) normalize(partyType PartyType, b bundle) []Entry {
	entries := make([]Entry, 0,
		len(b.sales)+len(b.purchases)+len(b.paymentsIn)+len(b.paymentsOut)+len(b.returns)+1)

	for _, row := range b.sales {
		entries = append(entries, s.entry(KindSale, row, false))
	}
	for _, row := range b.purchases {
		entries = append(entries, s.entry(KindPurchase, row, false))
	}
	for _, row := range b.paymentsIn {
		entries = append(entries, s.entry(KindPaymentIn, row, true))
	}
	for _, row := range b.paymentsOut {
		entries = append(entries, s.entry(KindPaymentOut, row, true))
	}
	for _, row := range b.returns {
		kind := KindSaleReturn
		if row.Origin == ReturnOfPurchase {
			kind = KindPurchaseReturn
		}
		entries = append(entries, s.entry(kind, row.SourceRow, true))
	}
	if b.opening != nil {
		// Stored already signed by convention; no negation.
		entries = append(entries, Entry{
			Date:        b.opening.EffectiveDate,
			Kind:        KindOpeningBalance,
			Description: "Opening balance",
			Amount:      s.parseAmount(b.opening.Amount, KindOpeningBalance, 0),
		})
	}

	sortEntries(entries)
	return entries
}

// entry applies the sign convention to a single source row.
func (s *Service) entry(kind Kind, row SourceRow, negate bool) Entry {
	amount := s.parseAmount(row.Amount, kind, row.ID)
	if negate {
		amount = amount.Neg()
	}
	return Entry{
		Date:        row.Date,
		Kind:        kind,
		ReferenceID: row.ID,
		Seq:         row.ID,
		Description: row.Description,
		Amount:      amount,
	}
}

// parseAmount recovers from malformed stored amounts: a row that fails
// to parse contributes zero and logs a warning, so one bad row never
// aborts a statement.
func (s *Service) parseAmount(raw string, kind Kind, refID int64) decimal.Decimal {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		s.logger.Warn("malformed amount in source row, treating as zero",
			slog.String("kind", string(kind)),
			slog.Int64("reference_id", refID),
			slog.String("raw", raw),
		)
		return decimal.Zero
	}
	return round(amount)
}

// sortEntries orders by date, then explicit sequence (the source row's
// auto-increment id), then kind rank. Same-day events therefore replay
// in a deterministic, auditable order.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		if entries[i].Seq != entries[j].Seq {
			return entries[i].Seq < entries[j].Seq
		}
		return entries[i].Kind.rank() < entries[j].Kind.rank()
	})
}
