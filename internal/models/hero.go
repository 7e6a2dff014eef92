package models

import "strings"

// HeroImage is one slide of the home page slider
type HeroImage struct {
	Record      `bson:",inline"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" gorm:"type:text" bson:"description"`
	ImageURL    string `json:"imageUrl" gorm:"not null" bson:"image_url"`
	IsActive    bool   `json:"isActive" gorm:"index" bson:"is_active"`
	SortOrder   int    `json:"order" gorm:"column:sort_order" bson:"sort_order"`
}

func (HeroImage) TableName() string { return "hero_images" }

func (h *HeroImage) Prepare() error {
	errs := fieldErrors{}
	h.ImageURL = strings.TrimSpace(h.ImageURL)
	if h.ImageURL == "" {
		errs.add("imageUrl", "Image URL is required.")
	}
	if h.SortOrder < 0 {
		errs.add("order", "Order must not be negative.")
	}
	return errs.err()
}
