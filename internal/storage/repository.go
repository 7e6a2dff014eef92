package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/terra-clan/company-site/internal/models"
)

// Common errors
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflict")
)

// Query describes a read over one collection. Field names are the shared
// snake_case names used by both backends.
type Query struct {
	// Where holds equality predicates, combined with AND
	Where map[string]any
	// Exclude holds inequality predicates, combined with AND
	Exclude map[string]any
	// Match is an optional case-insensitive substring match
	Match   *Match
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// Match matches records where any of Fields contains Term, ignoring case
type Match struct {
	Term   string
	Fields []string
}

func (m *Match) active() bool {
	return m != nil && m.Term != "" && len(m.Fields) > 0
}

// Collection is uniform access to one entity type
type Collection[T any] interface {
	Find(ctx context.Context, q Query) ([]T, error)
	// Get returns ErrNotFound when no record has the id
	Get(ctx context.Context, id string) (*T, error)
	// Create assigns an id when empty and returns ErrConflict on a
	// uniqueness violation
	Create(ctx context.Context, item *T) error
	// Update replaces the editable fields of the record with item's id,
	// touches updated_at and reloads item from the store
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
}

// Repository defines the interface for site content persistence
type Repository interface {
	Services() Collection[models.Service]
	Posts() Collection[models.Post]
	Projects() Collection[models.Project]
	Careers() Collection[models.Career]
	HeroImages() Collection[models.HeroImage]
	Settings() Collection[models.SiteSettings]
	Contacts() Collection[models.ContactSubmission]
	Admins() Collection[models.AdminUser]

	// Health
	Ping(ctx context.Context) error
	Close() error
}

// record is the constraint satisfied by pointers to entity structs
type record[T any] interface {
	*T
	models.Entity
}

// UniqueFields maps each table to its unique natural key column
var UniqueFields = map[string]string{
	"services":    "slug",
	"posts":       "slug",
	"careers":     "slug",
	"admin_users": "email",
}

// TableName returns the table (or document collection) name of T
func TableName[T any]() string {
	return tableName[T]()
}

// AllModels lists every persisted entity, in migration order
func AllModels() []any {
	return []any{
		&models.Service{},
		&models.Post{},
		&models.Project{},
		&models.Career{},
		&models.HeroImage{},
		&models.SiteSettings{},
		&models.ContactSubmission{},
		&models.AdminUser{},
	}
}

// tableName returns the table (or document collection) name of T
func tableName[T any]() string {
	if t, ok := any(new(T)).(interface{ TableName() string }); ok {
		return t.TableName()
	}
	return fmt.Sprintf("%T", *new(T))
}
