package ads

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

// Click bills a click on a previously shown ad. It reports whether a new
// click was recorded; a repeated click is a successful no-op.
func (s *Service) Click(ctx context.Context, clientID, campaignID string) (bool, error) {
	day, err := s.clock.Today(ctx)
	if err != nil {
		return false, err
	}

	var recorded bool
	err = s.store.WithTx(ctx, func(tx Tx) error {
		if _, err := tx.Clients().Get(ctx, clientID); err != nil {
			return err
		}
		c, err := tx.Campaigns().Get(ctx, campaignID)
		if err != nil {
			return err
		}

		clicked, err := tx.Actions().Exists(ctx, domain.ActionClick, campaignID, clientID)
		if err != nil {
			return err
		}
		if clicked {
			return nil
		}

		shown, err := tx.Actions().Exists(ctx, domain.ActionImpression, campaignID, clientID)
		if err != nil {
			return err
		}
		if !shown {
			return domain.ErrAdNotShownBefore()
		}

		click := domain.Action{
			Kind:       domain.ActionClick,
			CampaignID: campaignID,
			ClientID:   clientID,
			Day:        day,
			Price:      c.CostPerClick,
		}
		recorded, err = tx.Actions().Record(ctx, click)
		if err != nil {
			return err
		}
		if recorded {
			return s.enqueueAction(ctx, tx, c, click)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return recorded, nil
}
