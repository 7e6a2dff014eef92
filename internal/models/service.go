package models

import "strings"

// Service is an offering shown on the public services pages
type Service struct {
	Record    `bson:",inline"`
	Slug      string   `json:"slug" gorm:"uniqueIndex;size:191;not null" bson:"slug"`
	Title     string   `json:"title" gorm:"not null" bson:"title"`
	ShortDesc string   `json:"short_desc" gorm:"type:text" bson:"short_desc"`
	LongDesc  string   `json:"long_desc" gorm:"type:text" bson:"long_desc"`
	Details   []string `json:"details" gorm:"type:text;serializer:json" bson:"details"`
	ImageURL  string   `json:"imageUrl,omitempty" bson:"image_url"`
}

func (Service) TableName() string { return "services" }

// Prepare validates editable fields and normalizes the slug. An empty slug
// is derived from the title.
func (s *Service) Prepare() error {
	errs := fieldErrors{}

	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		errs.add("title", "Title is required.")
	}

	if strings.TrimSpace(s.Slug) == "" {
		s.Slug = Slugify(s.Title)
	} else {
		s.Slug = Slugify(s.Slug)
	}
	if s.Slug == "" {
		errs.add("slug", "Slug must contain letters or digits.")
	}

	if s.Details == nil {
		s.Details = []string{}
	}

	return errs.err()
}
