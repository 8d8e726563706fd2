// internal/services/ad_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edark-import/marketplace-backend/internal/models"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

var (
	ErrAdSpaceNotFound  = errors.New("ad space not found")
	ErrInvalidPlacement = errors.New("invalid ad placement")
)

type AdService struct {
	db *gorm.DB
}

func NewAdService(db *gorm.DB) *AdService {
	return &AdService{db: db}
}

type CreateAdSpaceRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=255"`
	Placement string `json:"placement" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=adsense banner custom"`
	Code      string `json:"code" validate:"omitempty,max=10000"`
	Active    bool   `json:"active"`
}

type UpdateAdSpaceRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=255"`
	Placement *string `json:"placement"`
	Type      *string `json:"type" validate:"omitempty,oneof=adsense banner custom"`
	Code      *string `json:"code" validate:"omitempty,max=10000"`
	Active    *bool   `json:"active"`
}

func (s *AdService) CreateAdSpace(req *CreateAdSpaceRequest) (*models.AdSpace, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	placement := models.AdPlacement(req.Placement)
	if !placement.Valid() {
		return nil, ErrInvalidPlacement
	}

	ad := &models.AdSpace{
		Name:      req.Name,
		Placement: placement,
		Type:      models.AdType(req.Type),
		Code:      req.Code,
		Active:    req.Active,
	}

	if err := s.db.Create(ad).Error; err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *AdService) GetAdSpace(id uuid.UUID) (*models.AdSpace, error) {
	var ad models.AdSpace
	err := s.db.First(&ad, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdSpaceNotFound
		}
		return nil, err
	}
	return &ad, nil
}

// UpdateAdSpace patches the editable fields. Counters are deliberately not
// part of the request type; they only move through the increment endpoints.
func (s *AdService) UpdateAdSpace(id uuid.UUID, req *UpdateAdSpaceRequest) (*models.AdSpace, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	ad, err := s.GetAdSpace(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		ad.Name = *req.Name
	}
	if req.Placement != nil {
		placement := models.AdPlacement(*req.Placement)
		if !placement.Valid() {
			return nil, ErrInvalidPlacement
		}
		ad.Placement = placement
	}
	if req.Type != nil {
		ad.Type = models.AdType(*req.Type)
	}
	if req.Code != nil {
		ad.Code = *req.Code
	}
	if req.Active != nil {
		ad.Active = *req.Active
	}

	if err := s.db.Save(ad).Error; err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *AdService) DeleteAdSpace(id uuid.UUID) error {
	result := s.db.Delete(&models.AdSpace{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAdSpaceNotFound
	}
	return nil
}

// ActiveByPlacement returns the active ads for one storefront slot.
func (s *AdService) ActiveByPlacement(placement models.AdPlacement) ([]models.AdSpace, error) {
	if !placement.Valid() {
		return nil, ErrInvalidPlacement
	}

	var ads []models.AdSpace
	err := s.db.Where("placement = ? AND active = ?", placement, true).
		Order("created_at ASC").
		Find(&ads).Error
	if err != nil {
		return nil, err
	}
	return ads, nil
}

func (s *AdService) ListAdSpaces() ([]models.AdSpace, error) {
	var ads []models.AdSpace
	err := s.db.Order("placement ASC, created_at ASC").Find(&ads).Error
	if err != nil {
		return nil, err
	}
	return ads, nil
}

// RecordImpression bumps the impression counter with a single atomic update.
func (s *AdService) RecordImpression(id uuid.UUID) error {
	return s.increment(id, "impressions")
}

func (s *AdService) RecordClick(id uuid.UUID) error {
	return s.increment(id, "clicks")
}

func (s *AdService) increment(id uuid.UUID, column string) error {
	result := s.db.Model(&models.AdSpace{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAdSpaceNotFound
	}
	return nil
}

type AdSpaceStats struct {
	Ad          models.AdSpace `json:"ad"`
	Impressions int64          `json:"impressions"`
	Clicks      int64          `json:"clicks"`
	CTR         float64        `json:"ctr"`
}

type AdStatsReport struct {
	Spaces           []AdSpaceStats `json:"spaces"`
	TotalImpressions int64          `json:"total_impressions"`
	TotalClicks      int64          `json:"total_clicks"`
	GlobalCTR        float64        `json:"global_ctr"`
}

func (s *AdService) Stats() (*AdStatsReport, error) {
	ads, err := s.ListAdSpaces()
	if err != nil {
		return nil, err
	}

	report := &AdStatsReport{Spaces: make([]AdSpaceStats, 0, len(ads))}
	for _, ad := range ads {
		report.Spaces = append(report.Spaces, AdSpaceStats{
			Ad:          ad,
			Impressions: ad.Impressions,
			Clicks:      ad.Clicks,
			CTR:         ad.CTR(),
		})
		report.TotalImpressions += ad.Impressions
		report.TotalClicks += ad.Clicks
	}
	if report.TotalImpressions > 0 {
		report.GlobalCTR = float64(report.TotalClicks) / float64(report.TotalImpressions) * 100
	}
	return report, nil
}
