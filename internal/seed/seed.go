package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/teeworks/internal/estimator"
	"github.com/Simplici0/teeworks/internal/store"
)

const sampleTitle = "Sample: club tees"

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run inserts the development sample data in an idempotent way.
func Run(ctx context.Context, db *sql.DB) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureSampleEstimate(ctx, tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func sampleEstimate() store.NewEstimate {
	return store.NewEstimate{
		Title:    sampleTitle,
		Customer: "Riverside running club",
		Notes:    "Front silkscreen on club stock, DTF back print on members' own shirts.",
		Groups: []estimator.Group{
			{
				Name: "club stock, front silkscreen",
				GroupCost: estimator.GroupCost{
					Quantity:            30,
					TshirtCost:          24000,
					SilkscreenPrintCost: 9000,
					SetupCost:           3000,
				},
			},
			{
				Name: "members' shirts, DTF back",
				GroupCost: estimator.GroupCost{
					Quantity:        12,
					BringInQuantity: 12,
					DtfPrintCost:    7200,
					SampleItemsCost: 500,
				},
			},
		},
	}
}

func ensureSampleEstimate(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM estimates WHERE title = ? LIMIT 1)`, sampleTitle).Scan(&exists); err != nil {
		return fmt.Errorf("check sample estimate existence: %w", err)
	}
	if exists {
		return nil
	}

	est := store.Build(sampleEstimate(), uuid.NewString(), time.Now())
	if err := store.InsertTx(ctx, tx, est); err != nil {
		return fmt.Errorf("insert sample estimate: %w", err)
	}
	stats.Inserts++
	return nil
}
