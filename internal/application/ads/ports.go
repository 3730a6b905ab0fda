package ads

import (
	"context"
	"io"
	"time"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

// Store is the transactional source of truth. Everything a flow writes goes
// through one WithTx call so the flow commits or rolls back as a unit.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	// Days reads the durable virtual day outside any transaction.
	Days() DayRepo
}

type Tx interface {
	Days() DayRepo
	Clients() ClientRepo
	Advertisers() AdvertiserRepo
	Scores() ScoreRepo
	Campaigns() CampaignRepo
	Actions() ActionLog
	Outbox() OutboxWriter
}

type DayRepo interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, day int) error
}

type ClientRepo interface {
	Upsert(ctx context.Context, clients []domain.Client) error
	Get(ctx context.Context, id string) (domain.Client, error)
}

type AdvertiserRepo interface {
	Upsert(ctx context.Context, advertisers []domain.Advertiser) error
	Get(ctx context.Context, id string) (domain.Advertiser, error)
}

type ScoreRepo interface {
	Upsert(ctx context.Context, s domain.Score) error
}

type CampaignRepo interface {
	Create(ctx context.Context, c domain.Campaign) error
	Update(ctx context.Context, c domain.Campaign) error
	// Get skips soft-deleted campaigns.
	Get(ctx context.Context, id string) (domain.Campaign, error)
	// GetAny includes soft-deleted campaigns.
	GetAny(ctx context.Context, id string) (domain.Campaign, error)
	ListByAdvertiser(ctx context.Context, advertiserID string, limit, offset int) ([]domain.Campaign, error)
	SoftDelete(ctx context.Context, id string) error
	SetImage(ctx context.Context, id string, key *string) error

	// BestFor returns the highest ranked eligible campaign for the client on
	// day, or domain.ErrNoAdsAvailable.
	BestFor(ctx context.Context, day int, client domain.Client) (domain.Campaign, error)
}

// ActionLog records impressions and clicks. Record inserts unless a row for
// the same (kind, campaign, client) exists and reports whether it inserted.
type ActionLog interface {
	Record(ctx context.Context, a domain.Action) (bool, error)
	Exists(ctx context.Context, kind domain.ActionKind, campaignID, clientID string) (bool, error)

	Totals(ctx context.Context, scope domain.StatsScope) (imps, clicks domain.Tally, err error)
	DailyTotals(ctx context.Context, scope domain.StatsScope) (imps, clicks []domain.DayTally, err error)
}

type OutboxMessage struct {
	MessageID  string
	RoutingKey string
	Body       []byte
	CreatedAt  time.Time
}

type OutboxWriter interface {
	Insert(ctx context.Context, msg OutboxMessage) error
}

// DayCache returns domain.ErrCacheMiss when no day is cached. Set is for the
// writer of the durable day; Fill only stores a value when the key is absent,
// so a slow refill cannot overwrite a newer day written by Set.
type DayCache interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, day int) error
	Fill(ctx context.Context, day int) error
	Invalidate(ctx context.Context) error
}

type ImageStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Delete removes an object; a missing key is not an error.
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error
}
