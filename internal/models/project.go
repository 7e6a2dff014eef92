package models

import "strings"

// Project is a portfolio entry
type Project struct {
	Record      `bson:",inline"`
	Title       string `json:"title" gorm:"not null" bson:"title"`
	Category    string `json:"category" gorm:"size:100" bson:"category"`
	Description string `json:"description" gorm:"type:text" bson:"description"`
	ImageURL    string `json:"imageUrl,omitempty" bson:"image_url"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) Prepare() error {
	errs := fieldErrors{}
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		errs.add("title", "Title is required.")
	}
	return errs.err()
}
