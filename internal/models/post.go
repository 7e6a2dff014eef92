package models

import (
	"strings"
	"time"
)

// AnnouncementCategory is reserved for banner announcements and kept out of
// the public blog feed
const AnnouncementCategory = "Announcement"

// Post is a blog article or announcement
type Post struct {
	Record   `bson:",inline"`
	Slug     string    `json:"slug" gorm:"uniqueIndex;size:191;not null" bson:"slug"`
	Title    string    `json:"title" gorm:"not null" bson:"title"`
	Content  string    `json:"content" gorm:"type:text" bson:"content"`
	Excerpt  string    `json:"excerpt" gorm:"type:text" bson:"excerpt"`
	Status   Status    `json:"status" gorm:"size:16;index;not null" bson:"status"`
	Category string    `json:"category" gorm:"size:100;index" bson:"category"`
	Author   string    `json:"author" bson:"author"`
	Date     time.Time `json:"date" gorm:"index" bson:"date"`
}

func (Post) TableName() string { return "posts" }

// IsPublished reports whether the post is visible to visitors
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// IsAnnouncement reports whether the post belongs to the banner category
func (p *Post) IsAnnouncement() bool {
	return p.Category == AnnouncementCategory
}

// Prepare validates the post and recomputes slug and excerpt from title
// and content. It runs on every save.
func (p *Post) Prepare() error {
	errs := fieldErrors{}

	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		errs.add("title", "Title is required.")
	}

	p.Slug = Slugify(p.Title)
	if p.Title != "" && p.Slug == "" {
		errs.add("title", "Title must contain letters or digits.")
	}
	p.Excerpt = Excerpt(p.Content)

	if p.Status == "" {
		p.Status = StatusDraft
	}
	if !p.Status.Valid() {
		errs.add("status", "Status must be Draft or Published.")
	}

	p.Category = strings.TrimSpace(p.Category)

	return errs.err()
}
