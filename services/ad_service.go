package services

import (
	"context"
	"time"

	"github.com/HSouheill/academy_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdService struct {
	ads AdStore
	now func() time.Time
}

func NewAdService(ads AdStore) *AdService {
	return &AdService{ads: ads, now: time.Now}
}

// ListLive returns active ads inside their display window, optionally for
// one placement
func (s *AdService) ListLive(ctx context.Context, placement string) ([]models.Advertisement, error) {
	ads, err := s.ads.List(ctx, true)
	if err != nil {
		return nil, err
	}
	now := s.now()
	live := make([]models.Advertisement, 0, len(ads))
	for _, ad := range ads {
		if !ad.Live(now) {
			continue
		}
		if placement != "" && ad.Placement != placement {
			continue
		}
		live = append(live, ad)
	}
	return live, nil
}

func (s *AdService) ListAll(ctx context.Context) ([]models.Advertisement, error) {
	return s.ads.List(ctx, false)
}

func validWindow(req models.AdRequest) bool {
	return req.StartsAt == nil || req.EndsAt == nil || req.EndsAt.After(*req.StartsAt)
}

func applyAdRequest(ad *models.Advertisement, req models.AdRequest) {
	ad.Title = req.Title
	ad.ImageURL = req.ImageURL
	ad.LinkURL = req.LinkURL
	ad.Placement = req.Placement
	ad.IsActive = req.IsActive
	ad.StartsAt = req.StartsAt
	ad.EndsAt = req.EndsAt
}

func (s *AdService) Create(ctx context.Context, adminID primitive.ObjectID, req models.AdRequest) (*models.Advertisement, error) {
	if !validWindow(req) {
		return nil, ErrInvalidInput
	}
	now := s.now()
	ad := &models.Advertisement{CreatedBy: adminID, CreatedAt: now, UpdatedAt: now}
	applyAdRequest(ad, req)
	if err := s.ads.Create(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *AdService) Update(ctx context.Context, id primitive.ObjectID, req models.AdRequest) (*models.Advertisement, error) {
	if !validWindow(req) {
		return nil, ErrInvalidInput
	}
	ad, err := s.ads.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	applyAdRequest(ad, req)
	if err := s.ads.Update(ctx, ad); err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	return ad, nil
}

func (s *AdService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return mapNotFound(s.ads.Delete(ctx, id), ErrNotFound)
}
