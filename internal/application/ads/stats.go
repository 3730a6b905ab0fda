package ads

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

// CampaignStats covers every campaign that ever existed, deleted ones too.
func (s *Service) CampaignStats(ctx context.Context, campaignID string) (domain.Stats, error) {
	var out domain.Stats
	err := s.store.WithTx(ctx, func(tx Tx) error {
		if _, err := tx.Campaigns().GetAny(ctx, campaignID); err != nil {
			return err
		}
		imps, clicks, err := tx.Actions().Totals(ctx, domain.StatsScope{CampaignID: campaignID})
		if err != nil {
			return err
		}
		out = domain.NewStats(imps, clicks)
		return nil
	})
	return out, err
}

func (s *Service) CampaignDailyStats(ctx context.Context, campaignID string) ([]domain.DailyStats, error) {
	var out []domain.DailyStats
	err := s.store.WithTx(ctx, func(tx Tx) error {
		if _, err := tx.Campaigns().GetAny(ctx, campaignID); err != nil {
			return err
		}
		imps, clicks, err := tx.Actions().DailyTotals(ctx, domain.StatsScope{CampaignID: campaignID})
		if err != nil {
			return err
		}
		out = domain.MergeDaily(imps, clicks)
		return nil
	})
	return out, err
}

// AdvertiserStats aggregates across all of the advertiser's campaigns.
func (s *Service) AdvertiserStats(ctx context.Context, advertiserID string) (domain.Stats, error) {
	var out domain.Stats
	err := s.store.WithTx(ctx, func(tx Tx) error {
		if _, err := tx.Advertisers().Get(ctx, advertiserID); err != nil {
			return err
		}
		imps, clicks, err := tx.Actions().Totals(ctx, domain.StatsScope{AdvertiserID: advertiserID})
		if err != nil {
			return err
		}
		out = domain.NewStats(imps, clicks)
		return nil
	})
	return out, err
}

func (s *Service) AdvertiserDailyStats(ctx context.Context, advertiserID string) ([]domain.DailyStats, error) {
	var out []domain.DailyStats
	err := s.store.WithTx(ctx, func(tx Tx) error {
		if _, err := tx.Advertisers().Get(ctx, advertiserID); err != nil {
			return err
		}
		imps, clicks, err := tx.Actions().DailyTotals(ctx, domain.StatsScope{AdvertiserID: advertiserID})
		if err != nil {
			return err
		}
		out = domain.MergeDaily(imps, clicks)
		return nil
	})
	return out, err
}
