package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

type pairKey struct {
	campaignID string
	clientID   string
}

type scoreKey struct {
	clientID     string
	advertiserID string
}

type state struct {
	day         int
	clients     map[string]domain.Client
	advertisers map[string]domain.Advertiser
	scores      map[scoreKey]int64
	campaigns   map[string]domain.Campaign
	actions     map[domain.ActionKind]map[pairKey]domain.Action
	outbox      []ads.OutboxMessage
}

func newState() *state {
	return &state{
		clients:     make(map[string]domain.Client),
		advertisers: make(map[string]domain.Advertiser),
		scores:      make(map[scoreKey]int64),
		campaigns:   make(map[string]domain.Campaign),
		actions: map[domain.ActionKind]map[pairKey]domain.Action{
			domain.ActionImpression: {},
			domain.ActionClick:      {},
		},
	}
}

// clone copies every map so a failed transaction leaves committed state intact.
// Campaign pointer fields are replaced, never mutated in place.
func (s *state) clone() *state {
	c := &state{
		day:         s.day,
		clients:     maps.Clone(s.clients),
		advertisers: maps.Clone(s.advertisers),
		scores:      maps.Clone(s.scores),
		campaigns:   maps.Clone(s.campaigns),
		actions:     make(map[domain.ActionKind]map[pairKey]domain.Action, len(s.actions)),
		outbox:      append([]ads.OutboxMessage(nil), s.outbox...),
	}
	for k, m := range s.actions {
		c.actions[k] = maps.Clone(m)
	}
	return c
}

// Store is an in-memory ads.Store. Transactions are serialized and applied
// copy-on-write, so a failing flow leaves no trace.
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx ads.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&tx{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) Days() ads.DayRepo { return storeDays{s: s} }

// Outbox returns a snapshot of the messages written so far.
func (s *Store) Outbox() []ads.OutboxMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ads.OutboxMessage(nil), s.st.outbox...)
}

// ActionCount reports how many rows of a kind exist for a (campaign, client) pair.
func (s *Store) ActionCount(kind domain.ActionKind, campaignID, clientID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.actions[kind][pairKey{campaignID, clientID}]; ok {
		return 1
	}
	return 0
}

type storeDays struct{ s *Store }

func (d storeDays) Get(ctx context.Context) (int, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	return d.s.st.day, nil
}

func (d storeDays) Set(ctx context.Context, day int) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	d.s.st.day = day
	return nil
}

type tx struct{ st *state }

func (t *tx) Days() ads.DayRepo               { return txDays{t.st} }
func (t *tx) Clients() ads.ClientRepo         { return clients{t.st} }
func (t *tx) Advertisers() ads.AdvertiserRepo { return advertisers{t.st} }
func (t *tx) Scores() ads.ScoreRepo           { return scores{t.st} }
func (t *tx) Campaigns() ads.CampaignRepo     { return campaigns{t.st} }
func (t *tx) Actions() ads.ActionLog          { return actions{t.st} }
func (t *tx) Outbox() ads.OutboxWriter        { return outbox{t.st} }

type txDays struct{ st *state }

func (d txDays) Get(ctx context.Context) (int, error) { return d.st.day, nil }

func (d txDays) Set(ctx context.Context, day int) error {
	d.st.day = day
	return nil
}

type outbox struct{ st *state }

func (o outbox) Insert(ctx context.Context, msg ads.OutboxMessage) error {
	o.st.outbox = append(o.st.outbox, msg)
	return nil
}
