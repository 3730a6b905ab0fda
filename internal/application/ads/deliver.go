package ads

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

// Ad is the client-facing view of a delivered campaign.
type Ad struct {
	CampaignID   string
	AdvertiserID string
	Title        string
	Text         string
	ImageURL     *string
}

// Deliver picks the best campaign for the client on the current day and
// records the impression. Repeat deliveries of the same campaign to the same
// client are served again but billed once.
func (s *Service) Deliver(ctx context.Context, clientID string) (Ad, error) {
	day, err := s.clock.Today(ctx)
	if err != nil {
		return Ad{}, err
	}

	var ad Ad
	err = s.store.WithTx(ctx, func(tx Tx) error {
		client, err := tx.Clients().Get(ctx, clientID)
		if err != nil {
			return err
		}

		c, err := tx.Campaigns().BestFor(ctx, day, client)
		if err != nil {
			return err
		}

		imp := domain.Action{
			Kind:       domain.ActionImpression,
			CampaignID: c.ID,
			ClientID:   client.ID,
			Day:        day,
			Price:      c.CostPerImpression,
		}
		inserted, err := tx.Actions().Record(ctx, imp)
		if err != nil {
			return err
		}
		if inserted {
			if err := s.enqueueAction(ctx, tx, c, imp); err != nil {
				return err
			}
		}

		ad = Ad{
			CampaignID:   c.ID,
			AdvertiserID: c.AdvertiserID,
			Title:        c.Title,
			Text:         c.Text,
			ImageURL:     s.publicURL(c.ImageKey),
		}
		return nil
	})
	if err != nil {
		return Ad{}, err
	}
	return ad, nil
}
