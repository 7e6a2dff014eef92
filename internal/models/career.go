package models

import "strings"

// CareerType distinguishes the kinds of openings on the careers pages
type CareerType string

const (
	CareerJob        CareerType = "job"
	CareerInternship CareerType = "internship"
	CareerTraining   CareerType = "training"
)

// careerAttributes lists the attribute keys each career type carries
var careerAttributes = map[CareerType][]string{
	CareerJob:        {"department", "employmentType", "salaryRange"},
	CareerInternship: {"duration", "stipend"},
	CareerTraining:   {"startDate", "duration", "price"},
}

// Valid reports whether t is a known career type
func (t CareerType) Valid() bool {
	_, ok := careerAttributes[t]
	return ok
}

// AttributeKeys returns the attribute keys allowed for t
func (t CareerType) AttributeKeys() []string {
	keys := careerAttributes[t]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Career is a job, internship or training opening
type Career struct {
	Record              `bson:",inline"`
	Type                CareerType        `json:"type" gorm:"size:16;index;not null" bson:"type"`
	Title               string            `json:"title" gorm:"not null" bson:"title"`
	Slug                string            `json:"slug" gorm:"uniqueIndex;size:191;not null" bson:"slug"`
	Summary             string            `json:"summary" gorm:"type:text" bson:"summary"`
	Description         string            `json:"description" gorm:"type:text" bson:"description"`
	Status              Status            `json:"status" gorm:"size:16;index;not null" bson:"status"`
	ApplicationEmail    string            `json:"applicationEmail,omitempty" bson:"application_email"`
	ApplicationWhatsapp string            `json:"applicationWhatsapp,omitempty" bson:"application_whatsapp"`
	Attributes          map[string]string `json:"attributes" gorm:"type:text;serializer:json" bson:"attributes"`
}

func (Career) TableName() string { return "careers" }

// IsPublished reports whether the opening is visible to visitors
func (c *Career) IsPublished() bool {
	return c.Status == StatusPublished
}

// Prepare validates the entry, recomputes the slug from the title and drops
// attributes that do not belong to the entry's type.
func (c *Career) Prepare() error {
	errs := fieldErrors{}

	if !c.Type.Valid() {
		errs.add("type", "Type must be job, internship or training.")
	}

	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		errs.add("title", "Title is required.")
	}
	c.Slug = Slugify(c.Title)
	if c.Title != "" && c.Slug == "" {
		errs.add("title", "Title must contain letters or digits.")
	}

	if c.Status == "" {
		c.Status = StatusDraft
	}
	if !c.Status.Valid() {
		errs.add("status", "Status must be Draft or Published.")
	}

	attrs := make(map[string]string)
	for _, key := range careerAttributes[c.Type] {
		if v := strings.TrimSpace(c.Attributes[key]); v != "" {
			attrs[key] = v
		}
	}
	c.Attributes = attrs

	return errs.err()
}
