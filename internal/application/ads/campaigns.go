package ads

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

const (
	DefaultPageSize  = 10
	imageContentType = "image/jpeg"
)

// CampaignInput carries the advertiser-editable fields of a campaign.
type CampaignInput struct {
	ImpressionsLimit  int
	ClicksLimit       int
	CostPerImpression float64
	CostPerClick      float64
	Title             string
	Text              string
	StartDay          int
	EndDay            int
	Targeting         domain.Targeting
}

// CampaignView is a campaign with its image reference in public CDN form.
type CampaignView struct {
	domain.Campaign
	ImageURL *string
}

func (s *Service) view(c domain.Campaign) CampaignView {
	return CampaignView{Campaign: c, ImageURL: s.publicURL(c.ImageKey)}
}

func (in CampaignInput) apply(c *domain.Campaign) {
	c.ImpressionsLimit = in.ImpressionsLimit
	c.ClicksLimit = in.ClicksLimit
	c.CostPerImpression = in.CostPerImpression
	c.CostPerClick = in.CostPerClick
	c.Title = in.Title
	c.Text = in.Text
	c.StartDay = in.StartDay
	c.EndDay = in.EndDay
	c.Targeting = in.Targeting
	if c.Targeting.Gender == nil {
		all := domain.GenderAll
		c.Targeting.Gender = &all
	}
}

// ownedCampaign loads a live campaign and hides it from other advertisers.
func ownedCampaign(ctx context.Context, tx Tx, advertiserID, campaignID string) (domain.Campaign, error) {
	c, err := tx.Campaigns().Get(ctx, campaignID)
	if err != nil {
		return domain.Campaign{}, err
	}
	if c.AdvertiserID != advertiserID {
		return domain.Campaign{}, domain.ErrCampaignNotFound()
	}
	return c, nil
}

func (s *Service) CreateCampaign(ctx context.Context, advertiserID string, in CampaignInput) (CampaignView, error) {
	day, err := s.clock.Today(ctx)
	if err != nil {
		return CampaignView{}, err
	}

	c := domain.Campaign{ID: uuid.NewString(), AdvertiserID: advertiserID}
	in.apply(&c)
	if err := c.ValidateNew(day); err != nil {
		return CampaignView{}, err
	}

	err = s.store.WithTx(ctx, func(tx Tx) error {
		if _, err := tx.Advertisers().Get(ctx, advertiserID); err != nil {
			return err
		}
		return tx.Campaigns().Create(ctx, c)
	})
	if err != nil {
		return CampaignView{}, err
	}

	s.emitAudit("campaign.create", map[string]string{"campaign_id": c.ID, "advertiser_id": advertiserID})
	return s.view(c), nil
}

func (s *Service) GetCampaign(ctx context.Context, advertiserID, campaignID string) (CampaignView, error) {
	var c domain.Campaign
	err := s.store.WithTx(ctx, func(tx Tx) error {
		var err error
		c, err = ownedCampaign(ctx, tx, advertiserID, campaignID)
		return err
	})
	if err != nil {
		return CampaignView{}, err
	}
	return s.view(c), nil
}

// ListCampaigns pages through an advertiser's live campaigns. page starts at 0.
func (s *Service) ListCampaigns(ctx context.Context, advertiserID string, page, size int) ([]CampaignView, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	var list []domain.Campaign
	err := s.store.WithTx(ctx, func(tx Tx) error {
		if _, err := tx.Advertisers().Get(ctx, advertiserID); err != nil {
			return err
		}
		var err error
		list, err = tx.Campaigns().ListByAdvertiser(ctx, advertiserID, size, page*size)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]CampaignView, 0, len(list))
	for _, c := range list {
		out = append(out, s.view(c))
	}
	return out, nil
}

// UpdateCampaign replaces the editable fields. imageURL must equal the
// current public image URL; images only change through AttachImage and
// DeleteImage.
func (s *Service) UpdateCampaign(ctx context.Context, advertiserID, campaignID string, in CampaignInput, imageURL *string) (CampaignView, error) {
	day, err := s.clock.Today(ctx)
	if err != nil {
		return CampaignView{}, err
	}

	var next domain.Campaign
	err = s.store.WithTx(ctx, func(tx Tx) error {
		stored, err := ownedCampaign(ctx, tx, advertiserID, campaignID)
		if err != nil {
			return err
		}

		next = stored
		in.apply(&next)
		if err := domain.CheckUpdate(stored, next, day); err != nil {
			return err
		}
		if !sameURL(s.publicURL(stored.ImageKey), imageURL) {
			return domain.ErrImageImmutable()
		}
		return tx.Campaigns().Update(ctx, next)
	})
	if err != nil {
		return CampaignView{}, err
	}

	s.emitAudit("campaign.update", map[string]string{"campaign_id": campaignID, "day": strconv.Itoa(day)})
	return s.view(next), nil
}

func (s *Service) DeleteCampaign(ctx context.Context, advertiserID, campaignID string) error {
	err := s.store.WithTx(ctx, func(tx Tx) error {
		if _, err := ownedCampaign(ctx, tx, advertiserID, campaignID); err != nil {
			return err
		}
		return tx.Campaigns().SoftDelete(ctx, campaignID)
	})
	if err != nil {
		return err
	}
	s.emitAudit("campaign.delete", map[string]string{"campaign_id": campaignID})
	return nil
}

// AttachImage stores a .jpg/.jpeg upload under a fresh object name and points
// the campaign at it. It returns the public URL. If the campaign update does
// not commit, the uploaded object is removed again.
func (s *Service) AttachImage(ctx context.Context, advertiserID, campaignID, filename string, body ImageBody) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" {
		return "", domain.ErrInvalidImageExtension(ext)
	}

	key := uuid.NewString() + ".jpg"
	uploaded := false
	err := s.store.WithTx(ctx, func(tx Tx) error {
		if _, err := ownedCampaign(ctx, tx, advertiserID, campaignID); err != nil {
			return err
		}
		if err := s.images.Put(ctx, key, body.Reader, body.Size, imageContentType); err != nil {
			return domain.ErrStorageUnavailable(err)
		}
		uploaded = true
		return tx.Campaigns().SetImage(ctx, campaignID, &key)
	})
	if err != nil {
		if uploaded {
			s.discardImage(ctx, key)
		}
		return "", err
	}

	s.emitAudit("campaign.image.attach", map[string]string{"campaign_id": campaignID, "key": key})
	return s.images.PublicURL(key), nil
}

func (s *Service) discardImage(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.images.Delete(ctx, key); err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("orphaned image not removed")
	}
}

func (s *Service) DeleteImage(ctx context.Context, advertiserID, campaignID string) error {
	err := s.store.WithTx(ctx, func(tx Tx) error {
		if _, err := ownedCampaign(ctx, tx, advertiserID, campaignID); err != nil {
			return err
		}
		return tx.Campaigns().SetImage(ctx, campaignID, nil)
	})
	if err != nil {
		return err
	}
	s.emitAudit("campaign.image.delete", map[string]string{"campaign_id": campaignID})
	return nil
}

func sameURL(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
