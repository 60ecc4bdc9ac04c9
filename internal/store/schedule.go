package store

import (
	"context"
	"fmt"

	"github.com/fortuna/danglers/internal/schedule"
)

// ScheduleRepository reads and replaces the schedule_games table.
// It satisfies schedule.Source, so the service can run off PostgreSQL instead of a file.
type ScheduleRepository struct {
	db *Database
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *Database) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Records returns every schedule row in its original order
func (r *ScheduleRepository) Records(ctx context.Context) ([]schedule.Record, error) {
	query := `
		SELECT date, time, opponent, opponent_link, home_or_away, location, game_link
		FROM schedule_games
		ORDER BY position
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	defer rows.Close()

	var records []schedule.Record
	for rows.Next() {
		var rec schedule.Record
		if err := rows.Scan(
			&rec.Date, &rec.Time, &rec.Opponent, &rec.OpponentLink,
			&rec.HomeOrAway, &rec.Location, &rec.GameLink,
		); err != nil {
			return nil, fmt.Errorf("scanning schedule row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule rows: %w", err)
	}

	return records, nil
}

// ReplaceAll swaps the whole schedule for records in one transaction.
// Record order becomes the position column.
func (r *ScheduleRepository) ReplaceAll(ctx context.Context, records []schedule.Record) error {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_games`); err != nil {
		return fmt.Errorf("clearing schedule: %w", err)
	}

	insert := `
		INSERT INTO schedule_games (position, date, time, opponent, opponent_link, home_or_away, location, game_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i, rec := range records {
		if _, err := tx.ExecContext(ctx, insert,
			i, rec.Date, rec.Time, rec.Opponent, rec.OpponentLink,
			rec.HomeOrAway, rec.Location, rec.GameLink,
		); err != nil {
			return fmt.Errorf("inserting schedule row %d: %w", i, err)
		}
	}

	return tx.Commit()
}
