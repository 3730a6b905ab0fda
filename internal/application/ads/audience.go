package ads

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

func (s *Service) UpsertClients(ctx context.Context, clients []domain.Client) ([]domain.Client, error) {
	for _, c := range clients {
		if !c.Gender.ValidClient() {
			return nil, domain.ErrInvalidField("gender", "must be MALE or FEMALE")
		}
		if c.Age < 0 {
			return nil, domain.ErrInvalidField("age", "must be >= 0")
		}
	}
	err := s.store.WithTx(ctx, func(tx Tx) error {
		return tx.Clients().Upsert(ctx, clients)
	})
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *Service) GetClient(ctx context.Context, id string) (domain.Client, error) {
	var c domain.Client
	err := s.store.WithTx(ctx, func(tx Tx) error {
		var err error
		c, err = tx.Clients().Get(ctx, id)
		return err
	})
	return c, err
}

func (s *Service) UpsertAdvertisers(ctx context.Context, advertisers []domain.Advertiser) ([]domain.Advertiser, error) {
	err := s.store.WithTx(ctx, func(tx Tx) error {
		return tx.Advertisers().Upsert(ctx, advertisers)
	})
	if err != nil {
		return nil, err
	}
	return advertisers, nil
}

func (s *Service) GetAdvertiser(ctx context.Context, id string) (domain.Advertiser, error) {
	var a domain.Advertiser
	err := s.store.WithTx(ctx, func(tx Tx) error {
		var err error
		a, err = tx.Advertisers().Get(ctx, id)
		return err
	})
	return a, err
}

// UpsertScore stores an affinity score. Both sides of the pair must exist.
func (s *Service) UpsertScore(ctx context.Context, sc domain.Score) error {
	if sc.Score < 0 {
		return domain.ErrInvalidField("score", "must be >= 0")
	}
	return s.store.WithTx(ctx, func(tx Tx) error {
		if _, err := tx.Clients().Get(ctx, sc.ClientID); err != nil {
			return err
		}
		if _, err := tx.Advertisers().Get(ctx, sc.AdvertiserID); err != nil {
			return err
		}
		return tx.Scores().Upsert(ctx, sc)
	})
}
