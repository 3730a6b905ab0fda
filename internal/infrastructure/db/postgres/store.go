package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Days() ads.DayRepo { return dayRepo{q: s.db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx ads.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
		ReadOnly:  false,
	})
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&txRepo{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRepo struct {
	tx *sql.Tx
}

func (t *txRepo) Days() ads.DayRepo               { return dayRepo{q: t.tx} }
func (t *txRepo) Clients() ads.ClientRepo         { return clientRepo{q: t.tx} }
func (t *txRepo) Advertisers() ads.AdvertiserRepo { return advertiserRepo{q: t.tx} }
func (t *txRepo) Scores() ads.ScoreRepo           { return scoreRepo{q: t.tx} }
func (t *txRepo) Campaigns() ads.CampaignRepo     { return campaignRepo{q: t.tx} }
func (t *txRepo) Actions() ads.ActionLog          { return actionLog{q: t.tx} }
func (t *txRepo) Outbox() ads.OutboxWriter        { return outboxWriter{q: t.tx} }

const (
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

// notFoundOn maps missing rows and malformed ids to the given not-found error.
func notFoundOn(err error, notFound func() *domain.Error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound()
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepr {
		return notFound()
	}
	return err
}
