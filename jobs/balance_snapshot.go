package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	jobmetrics "github.com/jimohammad/po-sub000/internal/jobs"
	"github.com/jimohammad/po-sub000/internal/ledger"
	"github.com/jimohammad/po-sub000/internal/party"
	"github.com/jimohammad/po-sub000/internal/shared"
)

// BalanceComputer recomputes a party balance from the ledger.
type BalanceComputer interface {
	CurrentBalance(ctx context.Context, partyID int64, partyType ledger.PartyType, asOf time.Time, branchID int64) (decimal.Decimal, error)
}

// PartyLister walks party ids for the snapshot sweep.
type PartyLister interface {
	ListIDsByType(ctx context.Context, t party.Type) ([]int64, error)
}

// BalanceSnapshotJob recomputes every party balance and persists the
// result, flagging parties whose stored snapshot drifted.
type BalanceSnapshotJob struct {
	Ledger  BalanceComputer
	Parties PartyLister
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewBalanceSnapshotJob initialises the snapshot handler.
func NewBalanceSnapshotJob(computer BalanceComputer, parties PartyLister, pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *BalanceSnapshotJob {
	return &BalanceSnapshotJob{
		Ledger:  computer,
		Parties: parties,
		Pool:    pool,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the snapshot sweep.
func (j *BalanceSnapshotJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("balance snapshot: handler not configured")
	}
	var payload BalanceSnapshotPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	asOf := j.now().Truncate(24 * time.Hour)
	if payload.AsOf != "" {
		parsed, err := time.ParseInLocation(shared.DateLayout, payload.AsOf, time.UTC)
		if err != nil {
			return asynq.SkipRetry
		}
		asOf = parsed
	}

	types := []ledger.PartyType{ledger.PartyCustomer, ledger.PartySupplier}
	if payload.PartyType != "" {
		parsed, err := ledger.ParsePartyType(payload.PartyType)
		if err != nil {
			return asynq.SkipRetry
		}
		types = []ledger.PartyType{parsed}
	}

	tracker := j.metrics().Track(TaskBalanceSnapshot)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("as_of", asOf.Format(shared.DateLayout)))
	logger.Info("starting balance snapshot sweep")

	start := j.now()
	swept, drifted := 0, 0
	for _, partyType := range types {
		ids, err := j.Parties.ListIDsByType(ctx, party.Type(partyType))
		if err != nil {
			resultErr = err
			logger.Error("list parties", slog.String("party_type", string(partyType)), slog.Any("error", err))
			return resultErr
		}
		for _, id := range ids {
			changed, err := j.snapshot(ctx, id, partyType, asOf)
			if err != nil {
				resultErr = err
				logger.Error("snapshot party",
					slog.Int64("party_id", id),
					slog.String("party_type", string(partyType)),
					slog.Any("error", err),
				)
				return resultErr
			}
			swept++
			if changed {
				drifted++
				j.Metrics.AddDrift(string(partyType), 1)
			}
		}
	}

	logger.Info("completed balance snapshot sweep",
		slog.Int("parties", swept),
		slog.Int("drifted", drifted),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// snapshot recomputes one balance and upserts it, reporting whether the
// stored value for the same date changed.
func (j *BalanceSnapshotJob) snapshot(ctx context.Context, partyID int64, partyType ledger.PartyType, asOf time.Time) (bool, error) {
	balance, err := j.Ledger.CurrentBalance(ctx, partyID, partyType, asOf, 0)
	if err != nil {
		return false, err
	}

	var previousRaw string
	err = j.Pool.QueryRow(ctx, `
		SELECT balance::text FROM balance_snapshots
		WHERE party_id = $1 AND as_of = $2`, partyID, asOf,
	).Scan(&previousRaw)
	hadPrevious := err == nil
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	_, err = j.Pool.Exec(ctx, `
		INSERT INTO balance_snapshots (party_id, party_type, as_of, balance, computed_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (party_id, as_of)
		DO UPDATE SET balance = EXCLUDED.balance, computed_at = NOW()`,
		partyID, partyType, asOf, balance,
	)
	if err != nil {
		return false, err
	}

	changed := false
	if hadPrevious {
		previous, perr := decimal.NewFromString(previousRaw)
		changed = perr == nil && !previous.Equal(balance)
		if changed {
			j.logger().Warn("balance drift detected",
				slog.Int64("party_id", partyID),
				slog.String("party_type", string(partyType)),
				slog.String("previous", previous.StringFixed(ledger.Scale)),
				slog.String("recomputed", balance.StringFixed(ledger.Scale)),
			)
		}
	}
	return changed, nil
}

func (j *BalanceSnapshotJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

func (j *BalanceSnapshotJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *BalanceSnapshotJob) metrics() *jobmetrics.Metrics {
	return j.Metrics
}
