package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
)

const insertOutboxSQL = `
INSERT INTO ad_outbox (
  message_id, routing_key, body, created_at, status, next_retry_at
) VALUES ($1, $2, $3::jsonb, $4, 'pending', $4)
`

type outboxWriter struct{ q querier }

// Insert stages an event in the caller's transaction. next_retry_at equals
// created_at so the row is due immediately.
func (w outboxWriter) Insert(ctx context.Context, msg ads.OutboxMessage) error {
	_, err := w.q.ExecContext(ctx, insertOutboxSQL,
		msg.MessageID,
		msg.RoutingKey,
		string(msg.Body),
		msg.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox: %w", err)
	}
	return nil
}

type outboxRow struct {
	ID         int64
	MessageID  string
	RoutingKey string
	Body       []byte
	Attempts   int
}

const selectOutboxClaimsSQL = `
SELECT id, message_id, routing_key, body, attempts
FROM ad_outbox
WHERE status = 'pending'
  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY next_retry_at ASC, created_at ASC
LIMIT $1
FOR UPDATE SKIP LOCKED
`

const updateOutboxClaimSQL = `
UPDATE ad_outbox
SET next_retry_at = $2,
    status = 'processing'
WHERE id = $1
`

const markOutboxSentSQL = `
UPDATE ad_outbox
SET status = 'sent',
    sent_at = $2,
    last_error = NULL
WHERE id = $1
`

const markOutboxFailedSQL = `
UPDATE ad_outbox
SET status = 'pending',
    attempts = attempts + 1,
    next_retry_at = $2,
    last_error = $3
WHERE id = $1
`

const markOutboxDeadSQL = `
UPDATE ad_outbox
SET status = 'dead',
    attempts = attempts + 1,
    last_error = $2
WHERE id = $1
`

// Rows stuck in 'processing' past their reservation go back to pending.
const releaseStaleClaimsSQL = `
UPDATE ad_outbox
SET status = 'pending'
WHERE status = 'processing' AND next_retry_at < NOW()
`

const (
	maxAttempts      = 10
	outboxBatchSize  = 20
	claimReservation = 30 * time.Second
	maxRetryDelay    = 10 * time.Minute
)

// nextRetryDelay is 2^attempts seconds plus up to a second of jitter,
// capped at maxRetryDelay.
func nextRetryDelay(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	d := time.Duration(math.Pow(2, float64(attempts))) * time.Second
	if d > maxRetryDelay {
		d = maxRetryDelay
	}
	return d + time.Duration(rand.Intn(1000))*time.Millisecond
}

// StartOutboxWorker polls the outbox and publishes due rows until ctx is
// canceled. Rows are claimed in a short transaction, published without
// holding locks, then marked sent, retried with backoff, or dead.
func (s *Store) StartOutboxWorker(ctx context.Context, pub ads.EventPublisher, interval time.Duration) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	go func() {
		time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.processOutboxBatch(ctx, pub, outboxBatchSize); err != nil && ctx.Err() == nil {
					zlog.Warn().Err(err).Msg("outbox batch failed")
				}
			}
		}
	}()
}

func (s *Store) processOutboxBatch(ctx context.Context, pub ads.EventPublisher, limit int) error {
	if limit <= 0 {
		limit = 50
	}

	batch, err := s.claimOutbox(ctx, limit)
	if err != nil {
		return err
	}
	for _, item := range batch {
		s.processSingleItem(ctx, pub, item)
	}
	return nil
}

func (s *Store) claimOutbox(ctx context.Context, limit int) ([]outboxRow, error) {
	claimCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(claimCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(claimCtx, releaseStaleClaimsSQL); err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(claimCtx, selectOutboxClaimsSQL, limit)
	if err != nil {
		return nil, err
	}
	var batch []outboxRow
	for rows.Next() {
		var item outboxRow
		if err := rows.Scan(&item.ID, &item.MessageID, &item.RoutingKey, &item.Body, &item.Attempts); err != nil {
			rows.Close()
			return nil, err
		}
		batch = append(batch, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(batch) == 0 {
		return nil, tx.Commit()
	}

	reservation := time.Now().UTC().Add(claimReservation)
	for _, item := range batch {
		if _, err := tx.ExecContext(claimCtx, updateOutboxClaimSQL, item.ID, reservation); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *Store) processSingleItem(ctx context.Context, pub ads.EventPublisher, item outboxRow) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := pub.PublishEvent(pubCtx, item.RoutingKey, item.MessageID, item.Body)

	resCtx, cancelRes := context.WithTimeout(ctx, 3*time.Second)
	defer cancelRes()

	if err == nil {
		if _, err := s.db.ExecContext(resCtx, markOutboxSentSQL, item.ID, time.Now().UTC()); err != nil {
			zlog.Warn().Err(err).Str("message_id", item.MessageID).Msg("outbox mark sent failed")
		}
		return
	}

	errMsg := err.Error()
	log := zlog.With().Str("message_id", item.MessageID).Str("rk", item.RoutingKey).Logger()

	if item.Attempts+1 >= maxAttempts {
		log.Error().Err(err).Int("attempts", item.Attempts+1).Msg("outbox message dead")
		if _, err := s.db.ExecContext(resCtx, markOutboxDeadSQL, item.ID, errMsg); err != nil {
			log.Warn().Err(err).Msg("outbox mark dead failed")
		}
		return
	}

	delay := nextRetryDelay(item.Attempts)
	log.Warn().Err(err).Dur("backoff", delay).Msg("outbox publish failed; retrying")
	if _, err := s.db.ExecContext(resCtx, markOutboxFailedSQL, item.ID, time.Now().UTC().Add(delay), errMsg); err != nil {
		log.Warn().Err(err).Msg("outbox reschedule failed")
	}
}
