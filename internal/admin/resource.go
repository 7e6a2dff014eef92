package admin

import (
	"context"
	"fmt"

	"github.com/terra-clan/company-site/internal/events"
	"github.com/terra-clan/company-site/internal/storage"
)

// Resource is CRUD over one content type
type Resource[T any, P Editable[T]] struct {
	svc        *Service
	coll       storage.Collection[T]
	kind       string
	orderBy    string
	desc       bool
	beforeSave func(*T)
}

// Kind returns the content kind this resource edits
func (r *Resource[T, P]) Kind() string {
	return r.kind
}

// List returns every record, drafts included
func (r *Resource[T, P]) List(ctx context.Context) ([]T, error) {
	items, err := r.coll.Find(ctx, storage.Query{OrderBy: r.orderBy, Desc: r.desc})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.kind, err)
	}
	return items, nil
}

// Get returns one record by id
func (r *Resource[T, P]) Get(ctx context.Context, id string) (*T, error) {
	item, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", r.kind, id, err)
	}
	return item, nil
}

// Create validates item, derives its computed fields and stores it under a
// new id
func (r *Resource[T, P]) Create(ctx context.Context, item *T) error {
	p := P(item)
	p.SetID("")
	if err := r.prepare(item); err != nil {
		return err
	}

	if err := r.coll.Create(ctx, item); err != nil {
		r.svc.logger.Error("admin create failed", "kind", r.kind, "error", err)
		return fmt.Errorf("failed to create %s: %w", r.kind, err)
	}

	r.svc.logger.Info("content created", "kind", r.kind, "id", p.GetID())
	r.svc.publish(ctx, r.kind, p.GetID(), events.ActionCreated)
	return nil
}

// Update replaces the editable fields of record id with item
func (r *Resource[T, P]) Update(ctx context.Context, id string, item *T) error {
	p := P(item)
	p.SetID(id)
	if err := r.prepare(item); err != nil {
		return err
	}

	if err := r.coll.Update(ctx, item); err != nil {
		r.svc.logger.Error("admin update failed", "kind", r.kind, "id", id, "error", err)
		return fmt.Errorf("failed to update %s %s: %w", r.kind, id, err)
	}

	r.svc.logger.Info("content updated", "kind", r.kind, "id", id)
	r.svc.publish(ctx, r.kind, id, events.ActionUpdated)
	return nil
}

// Delete removes record id
func (r *Resource[T, P]) Delete(ctx context.Context, id string) error {
	if err := r.coll.Delete(ctx, id); err != nil {
		r.svc.logger.Error("admin delete failed", "kind", r.kind, "id", id, "error", err)
		return fmt.Errorf("failed to delete %s %s: %w", r.kind, id, err)
	}

	r.svc.logger.Info("content deleted", "kind", r.kind, "id", id)
	r.svc.publish(ctx, r.kind, id, events.ActionDeleted)
	return nil
}

func (r *Resource[T, P]) prepare(item *T) error {
	if r.beforeSave != nil {
		r.beforeSave(item)
	}
	return P(item).Prepare()
}
