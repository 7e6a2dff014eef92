package content

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
)

// Contact form limits
const (
	MinNameLength    = 2
	MinMessageLength = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactForm is the raw contact form input
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// Validate checks the form and returns a *ValidationError listing every
// invalid field. Phone is optional and not checked.
func (f ContactForm) Validate() error {
	fields := make(map[string]string)

	if utf8.RuneCountInString(strings.TrimSpace(f.Name)) < MinNameLength {
		fields["name"] = "Name must be at least 2 characters."
	}
	if !emailPattern.MatchString(strings.TrimSpace(f.Email)) {
		fields["email"] = "Please enter a valid email address."
	}
	if utf8.RuneCountInString(strings.TrimSpace(f.Message)) < MinMessageLength {
		fields["message"] = "Message must be at least 10 characters."
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Contact accepts contact form submissions
type Contact struct {
	repo   storage.Repository
	logger *slog.Logger
}

// Submit validates the form and stores it. A validation failure returns a
// *ValidationError; a store failure a *StoreError.
func (c *Contact) Submit(ctx context.Context, form ContactForm) (*models.ContactSubmission, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	submission := &models.ContactSubmission{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.TrimSpace(form.Email),
		Phone:   strings.TrimSpace(form.Phone),
		Message: strings.TrimSpace(form.Message),
	}
	if err := c.repo.Contacts().Create(ctx, submission); err != nil {
		return nil, storeError("contact", err)
	}

	c.logger.Info("contact submission received",
		"id", submission.ID,
		"email", submission.Email,
	)
	return submission, nil
}
