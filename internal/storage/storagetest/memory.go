// Package storagetest provides an in-memory storage.Repository for tests.
package storagetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
)

// Repository is an in-memory storage.Repository. Documents are kept as BSON
// so reads return deep copies and queries see the shared field names.
type Repository struct {
	mu       sync.Mutex
	failures map[string]error
	calls    atomic.Int64
	closed   bool

	services   *Collection[models.Service, *models.Service]
	posts      *Collection[models.Post, *models.Post]
	projects   *Collection[models.Project, *models.Project]
	careers    *Collection[models.Career, *models.Career]
	heroImages *Collection[models.HeroImage, *models.HeroImage]
	settings   *Collection[models.SiteSettings, *models.SiteSettings]
	contacts   *Collection[models.ContactSubmission, *models.ContactSubmission]
	admins     *Collection[models.AdminUser, *models.AdminUser]
}

var _ storage.Repository = (*Repository)(nil)

// New returns an empty repository
func New() *Repository {
	r := &Repository{failures: make(map[string]error)}
	r.services = newCollection[models.Service](r)
	r.posts = newCollection[models.Post](r)
	r.projects = newCollection[models.Project](r)
	r.careers = newCollection[models.Career](r)
	r.heroImages = newCollection[models.HeroImage](r)
	r.settings = newCollection[models.SiteSettings](r)
	r.contacts = newCollection[models.ContactSubmission](r)
	r.admins = newCollection[models.AdminUser](r)
	return r
}

func (r *Repository) Services() storage.Collection[models.Service]     { return r.services }
func (r *Repository) Posts() storage.Collection[models.Post]           { return r.posts }
func (r *Repository) Projects() storage.Collection[models.Project]     { return r.projects }
func (r *Repository) Careers() storage.Collection[models.Career]       { return r.careers }
func (r *Repository) HeroImages() storage.Collection[models.HeroImage] { return r.heroImages }
func (r *Repository) Settings() storage.Collection[models.SiteSettings] {
	return r.settings
}
func (r *Repository) Contacts() storage.Collection[models.ContactSubmission] {
	return r.contacts
}
func (r *Repository) Admins() storage.Collection[models.AdminUser] { return r.admins }

// Fail makes every operation on table return err. An empty table fails
// all collections; a nil err clears the failure.
func (r *Repository) Fail(table string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, table)
		return
	}
	r.failures[table] = err
}

// Calls returns the number of collection operations issued so far
func (r *Repository) Calls() int {
	return int(r.calls.Load())
}

// ResetCalls zeroes the operation counter
func (r *Repository) ResetCalls() {
	r.calls.Store(0)
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.failure("")
}

func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close was called
func (r *Repository) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Repository) failure(table string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failures[""]; ok {
		return err
	}
	return r.failures[table]
}

// Collection is one in-memory table
type Collection[T any, P interface {
	*T
	models.Entity
}] struct {
	repo  *Repository
	table string
	calls atomic.Int64

	mu    sync.Mutex
	order []string
	docs  map[string]bson.M
}

func newCollection[T any, P interface {
	*T
	models.Entity
}](repo *Repository) *Collection[T, P] {
	return &Collection[T, P]{
		repo:  repo,
		table: storage.TableName[T](),
		docs:  make(map[string]bson.M),
	}
}

// Calls returns the number of operations issued against this collection
func (c *Collection[T, P]) Calls() int {
	return int(c.calls.Load())
}

func (c *Collection[T, P]) begin() error {
	c.calls.Add(1)
	c.repo.calls.Add(1)
	return c.repo.failure(c.table)
}

func (c *Collection[T, P]) Find(ctx context.Context, q storage.Query) ([]T, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	matched := make([]bson.M, 0, len(c.order))
	for _, id := range c.order {
		doc := c.docs[id]
		if matches(doc, q) {
			matched = append(matched, doc)
		}
	}
	c.mu.Unlock()

	if q.OrderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			cmp := compare(matched[i][q.OrderBy], matched[j][q.OrderBy])
			if q.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[q.Offset:]
		}
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	items := make([]T, 0, len(matched))
	for _, doc := range matched {
		var item T
		if err := decode(doc, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Collection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	doc, ok := c.docs[id]
	c.mu.Unlock()
	if !ok {
		return nil, storage.ErrNotFound
	}

	var item T
	if err := decode(doc, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Collection[T, P]) Create(ctx context.Context, item *T) error {
	if err := c.begin(); err != nil {
		return err
	}

	p := P(item)
	if p.GetID() == "" {
		p.SetID(models.NewID())
	}
	p.Touch(time.Now().UTC())

	doc, err := encode(item)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[p.GetID()]; exists {
		return storage.ErrConflict
	}
	if c.duplicate(doc, p.GetID()) {
		return storage.ErrConflict
	}
	c.docs[p.GetID()] = doc
	c.order = append(c.order, p.GetID())
	return nil
}

func (c *Collection[T, P]) Update(ctx context.Context, item *T) error {
	if err := c.begin(); err != nil {
		return err
	}

	p := P(item)
	id := p.GetID()
	p.Touch(time.Now().UTC())

	doc, err := encode(item)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.docs[id]
	if !ok {
		return storage.ErrNotFound
	}
	if c.duplicate(doc, id) {
		return storage.ErrConflict
	}
	doc["created_at"] = existing["created_at"]
	c.docs[id] = doc

	return decode(doc, item)
}

func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	if err := c.begin(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return storage.ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// duplicate reports whether another document shares doc's unique key
func (c *Collection[T, P]) duplicate(doc bson.M, id string) bool {
	field, ok := storage.UniqueFields[c.table]
	if !ok {
		return false
	}
	for otherID, other := range c.docs {
		if otherID != id && fmt.Sprint(other[field]) == fmt.Sprint(doc[field]) {
			return true
		}
	}
	return false
}

func matches(doc bson.M, q storage.Query) bool {
	for k, v := range q.Where {
		if fmt.Sprint(doc[k]) != fmt.Sprint(v) {
			return false
		}
	}
	for k, v := range q.Exclude {
		if fmt.Sprint(doc[k]) == fmt.Sprint(v) {
			return false
		}
	}
	if q.Match != nil && q.Match.Term != "" && len(q.Match.Fields) > 0 {
		term := strings.ToLower(q.Match.Term)
		for _, field := range q.Match.Fields {
			if s, ok := doc[field].(string); ok && strings.Contains(strings.ToLower(s), term) {
				return true
			}
		}
		return false
	}
	return true
}

func compare(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	case primitive.DateTime:
		bv, _ := b.(primitive.DateTime)
		return cmpInt(int64(av), int64(bv))
	case int32:
		bv, _ := b.(int32)
		return cmpInt(int64(av), int64(bv))
	case int64:
		bv, _ := b.(int64)
		return cmpInt(av, bv)
	case bool:
		bv, _ := b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func encode(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return doc, nil
}

func decode(doc bson.M, v any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if err := bson.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
