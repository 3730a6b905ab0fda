package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	selectDaySQL = `SELECT current_day FROM day WHERE id = TRUE`
	seedDaySQL   = `INSERT INTO day (id, current_day) VALUES (TRUE, 0) ON CONFLICT (id) DO NOTHING`
	upsertDaySQL = `
INSERT INTO day (id, current_day) VALUES (TRUE, $1)
ON CONFLICT (id) DO UPDATE SET current_day = EXCLUDED.current_day
`
)

type dayRepo struct{ q querier }

// Get returns the stored day, creating the row at day 0 on first use.
func (r dayRepo) Get(ctx context.Context) (int, error) {
	var day int
	err := r.q.QueryRowContext(ctx, selectDaySQL).Scan(&day)
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("select day: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, seedDaySQL); err != nil {
		return 0, fmt.Errorf("seed day: %w", err)
	}
	return 0, nil
}

func (r dayRepo) Set(ctx context.Context, day int) error {
	if _, err := r.q.ExecContext(ctx, upsertDaySQL, day); err != nil {
		return fmt.Errorf("set day: %w", err)
	}
	return nil
}
