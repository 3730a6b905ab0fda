package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

const (
	upsertClientSQL = `
INSERT INTO clients (client_id, login, age, location, gender)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (client_id) DO UPDATE
SET login = EXCLUDED.login,
    age = EXCLUDED.age,
    location = EXCLUDED.location,
    gender = EXCLUDED.gender
`
	selectClientSQL = `SELECT client_id, login, age, location, gender FROM clients WHERE client_id = $1`

	upsertAdvertiserSQL = `
INSERT INTO advertisers (advertiser_id, name) VALUES ($1, $2)
ON CONFLICT (advertiser_id) DO UPDATE SET name = EXCLUDED.name
`
	selectAdvertiserSQL = `SELECT advertiser_id, name FROM advertisers WHERE advertiser_id = $1`

	upsertScoreSQL = `
INSERT INTO scores (client_id, advertiser_id, score) VALUES ($1, $2, $3)
ON CONFLICT (client_id, advertiser_id) DO UPDATE SET score = EXCLUDED.score
`
)

type clientRepo struct{ q querier }

func (r clientRepo) Upsert(ctx context.Context, clients []domain.Client) error {
	for _, c := range clients {
		if _, err := r.q.ExecContext(ctx, upsertClientSQL, c.ID, c.Login, c.Age, c.Location, string(c.Gender)); err != nil {
			return fmt.Errorf("upsert client %s: %w", c.ID, err)
		}
	}
	return nil
}

func (r clientRepo) Get(ctx context.Context, id string) (domain.Client, error) {
	var (
		c      domain.Client
		gender string
	)
	err := r.q.QueryRowContext(ctx, selectClientSQL, id).Scan(&c.ID, &c.Login, &c.Age, &c.Location, &gender)
	if err != nil {
		return domain.Client{}, notFoundOn(err, domain.ErrClientNotFound)
	}
	c.Gender = domain.Gender(gender)
	return c, nil
}

type advertiserRepo struct{ q querier }

func (r advertiserRepo) Upsert(ctx context.Context, advertisers []domain.Advertiser) error {
	for _, a := range advertisers {
		if _, err := r.q.ExecContext(ctx, upsertAdvertiserSQL, a.ID, a.Name); err != nil {
			return fmt.Errorf("upsert advertiser %s: %w", a.ID, err)
		}
	}
	return nil
}

func (r advertiserRepo) Get(ctx context.Context, id string) (domain.Advertiser, error) {
	var a domain.Advertiser
	err := r.q.QueryRowContext(ctx, selectAdvertiserSQL, id).Scan(&a.ID, &a.Name)
	if err != nil {
		return domain.Advertiser{}, notFoundOn(err, domain.ErrAdvertiserNotFound)
	}
	return a, nil
}

type scoreRepo struct{ q querier }

func (r scoreRepo) Upsert(ctx context.Context, s domain.Score) error {
	_, err := r.q.ExecContext(ctx, upsertScoreSQL, s.ClientID, s.AdvertiserID, s.Score)
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		if pgErr.ConstraintName == "scores_client_id_fkey" {
			return domain.ErrClientNotFound()
		}
		return domain.ErrAdvertiserNotFound()
	}
	return fmt.Errorf("upsert score: %w", err)
}
