package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryCheckAll(t *testing.T) {
	r := NewRegistry()
	down := errors.New("connection refused")

	r.Register("database", CheckFunc(func(ctx context.Context) error { return nil }))
	r.Register("cache", CheckFunc(func(ctx context.Context) error { return down }))

	assert.Equal(t, []string{"cache", "database"}, r.List())

	results := r.CheckAll(context.Background())
	assert.NoError(t, results["database"])
	assert.ErrorIs(t, results["cache"], down)
	assert.False(t, Healthy(results))

	r.Unregister("cache")
	assert.True(t, Healthy(r.CheckAll(context.Background())))
}

func TestEmptyRegistryIsHealthy(t *testing.T) {
	results := NewRegistry().CheckAll(context.Background())
	assert.Empty(t, results)
	assert.True(t, Healthy(results))
}
