package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terra-clan/company-site/internal/models"
)

// GormRepository implements Repository on a relational database through gorm
type GormRepository struct {
	db      *gorm.DB
	closeFn func() error

	services   *gormCollection[models.Service, *models.Service]
	posts      *gormCollection[models.Post, *models.Post]
	projects   *gormCollection[models.Project, *models.Project]
	careers    *gormCollection[models.Career, *models.Career]
	heroImages *gormCollection[models.HeroImage, *models.HeroImage]
	settings   *gormCollection[models.SiteSettings, *models.SiteSettings]
	contacts   *gormCollection[models.ContactSubmission, *models.ContactSubmission]
	admins     *gormCollection[models.AdminUser, *models.AdminUser]
}

// NewGormRepository wraps an open gorm handle. closeFn releases the
// underlying connections and may be nil.
func NewGormRepository(db *gorm.DB, closeFn func() error) *GormRepository {
	return &GormRepository{
		db:         db,
		closeFn:    closeFn,
		services:   &gormCollection[models.Service, *models.Service]{db: db},
		posts:      &gormCollection[models.Post, *models.Post]{db: db},
		projects:   &gormCollection[models.Project, *models.Project]{db: db},
		careers:    &gormCollection[models.Career, *models.Career]{db: db},
		heroImages: &gormCollection[models.HeroImage, *models.HeroImage]{db: db},
		settings:   &gormCollection[models.SiteSettings, *models.SiteSettings]{db: db},
		contacts:   &gormCollection[models.ContactSubmission, *models.ContactSubmission]{db: db},
		admins:     &gormCollection[models.AdminUser, *models.AdminUser]{db: db},
	}
}

func (r *GormRepository) Services() Collection[models.Service]     { return r.services }
func (r *GormRepository) Posts() Collection[models.Post]           { return r.posts }
func (r *GormRepository) Projects() Collection[models.Project]     { return r.projects }
func (r *GormRepository) Careers() Collection[models.Career]       { return r.careers }
func (r *GormRepository) HeroImages() Collection[models.HeroImage] { return r.heroImages }
func (r *GormRepository) Settings() Collection[models.SiteSettings] {
	return r.settings
}
func (r *GormRepository) Contacts() Collection[models.ContactSubmission] {
	return r.contacts
}
func (r *GormRepository) Admins() Collection[models.AdminUser] { return r.admins }

// AutoMigrate creates or updates tables for every entity
func (r *GormRepository) AutoMigrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to auto-migrate schema: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connections
func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			return err
		}
	}
	if r.closeFn != nil {
		return r.closeFn()
	}
	return nil
}

// gormCollection implements Collection for one table
type gormCollection[T any, P record[T]] struct {
	db *gorm.DB
}

func (c *gormCollection[T, P]) Find(ctx context.Context, q Query) ([]T, error) {
	tx := c.db.WithContext(ctx).Model(new(T))

	if len(q.Where) > 0 {
		tx = tx.Where(map[string]interface{}(q.Where))
	}
	if len(q.Exclude) > 0 {
		tx = tx.Not(map[string]interface{}(q.Exclude))
	}

	if q.Match.active() {
		pattern := "%" + escapeLike(strings.ToLower(q.Match.Term)) + "%"
		conds := make([]string, 0, len(q.Match.Fields))
		args := make([]interface{}, 0, len(q.Match.Fields))
		for _, field := range q.Match.Fields {
			conds = append(conds, c.matchExpr(tx.Statement.Quote(field)))
			args = append(args, pattern)
		}
		tx = tx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Desc})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	items := make([]T, 0)
	if err := tx.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.table(), err)
	}
	return items, nil
}

// matchExpr returns a case-insensitive LIKE on column against a lowercased
// pattern. Both sides must fold the same way for non-ASCII text.
func (c *gormCollection[T, P]) matchExpr(column string) string {
	switch c.db.Dialector.Name() {
	case "postgres":
		return fmt.Sprintf("%s ILIKE ? ESCAPE '\\'", column)
	case "sqlite":
		return fmt.Sprintf("%s(%s) LIKE ? ESCAPE '\\'", sqliteFoldFunc, column)
	default:
		return fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", column)
	}
}

func (c *gormCollection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	err := c.db.WithContext(ctx).Where("id = ?", id).Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s %s: %w", c.table(), id, err)
	}
	return &item, nil
}

func (c *gormCollection[T, P]) Create(ctx context.Context, item *T) error {
	p := P(item)
	if p.GetID() == "" {
		p.SetID(models.NewID())
	}
	p.Touch(time.Now().UTC())

	if err := c.db.WithContext(ctx).Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create %s: %w", c.table(), err)
	}
	return nil
}

func (c *gormCollection[T, P]) Update(ctx context.Context, item *T) error {
	p := P(item)
	id := p.GetID()
	if id == "" {
		return ErrNotFound
	}
	p.Touch(time.Now().UTC())

	result := c.db.WithContext(ctx).
		Model(item).
		Select("*").
		Omit("id", "created_at").
		Updates(item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("failed to update %s %s: %w", c.table(), id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	if err := c.db.WithContext(ctx).Where("id = ?", id).Take(item).Error; err != nil {
		return fmt.Errorf("failed to reload %s %s: %w", c.table(), id, err)
	}
	return nil
}

func (c *gormCollection[T, P]) Delete(ctx context.Context, id string) error {
	result := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s %s: %w", c.table(), id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *gormCollection[T, P]) table() string {
	return tableName[T]()
}

// escapeLike escapes LIKE wildcards so the term is matched literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
