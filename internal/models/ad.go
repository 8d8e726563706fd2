// internal/models/ad.go
package models

// AdSpace is a rentable slot on the storefront or blog. Impressions and
// clicks are only ever mutated through atomic increments; the update API
// strips them from incoming patches.
type AdSpace struct {
	BaseModel
	Name        string      `json:"name" gorm:"size:255;not null"`
	Placement   AdPlacement `json:"placement" gorm:"type:varchar(20);not null;index"`
	Type        AdType      `json:"type" gorm:"type:varchar(20);not null"`
	Code        string      `json:"code" gorm:"type:text"`
	Active      bool        `json:"active" gorm:"default:true;index"`
	Impressions int64       `json:"impressions" gorm:"default:0"`
	Clicks      int64       `json:"clicks" gorm:"default:0"`
}

// CTR returns the click-through rate as a percentage.
func (a *AdSpace) CTR() float64 {
	if a.Impressions == 0 {
		return 0
	}
	return float64(a.Clicks) / float64(a.Impressions) * 100
}
