package blueprint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResourceContext(r *ResourceRegistry) *ResourceContext {
	return &ResourceContext{
		Context:   context.Background(),
		Stack:     &Stack{ID: "test"},
		Resources: r,
		Observer:  NewMockObserver(),
	}
}

func TestResourceRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty key", func(t *testing.T) {
		t.Parallel()
		err := NewResourceRegistry().Register("", &countingProvider{})
		assert.Error(t, err)
	})

	t.Run("rejects nil provider", func(t *testing.T) {
		t.Parallel()
		err := NewResourceRegistry().Register("kms", nil)
		assert.Error(t, err)
	})

	t.Run("replacing keeps position", func(t *testing.T) {
		t.Parallel()
		r := NewResourceRegistry()
		require.NoError(t, r.Register("a", &countingProvider{value: 1}))
		require.NoError(t, r.Register("b", &countingProvider{value: 2}))
		require.NoError(t, r.Register("a", &countingProvider{value: 3}))

		assert.Equal(t, []string{"a", "b"}, r.Keys())
		v, err := r.Resolve(newTestResourceContext(r), "a")
		require.NoError(t, err)
		assert.Equal(t, 3, v)
	})

	t.Run("resolved key cannot be replaced", func(t *testing.T) {
		t.Parallel()
		r := NewResourceRegistry()
		require.NoError(t, r.Register("a", &countingProvider{value: 1}))
		_, err := r.Resolve(newTestResourceContext(r), "a")
		require.NoError(t, err)

		assert.Error(t, r.Register("a", &countingProvider{value: 2}))
	})
}

func TestResourceRegistry_ResolveMemoizes(t *testing.T) {
	t.Parallel()
	r := NewResourceRegistry()
	p := &countingProvider{value: "vpc-1"}
	require.NoError(t, r.Register("vpc", p))

	var resolved []string
	r.onResolve = func(key string) { resolved = append(resolved, key) }

	rc := newTestResourceContext(r)
	for range 3 {
		v, err := r.Resolve(rc, "vpc")
		require.NoError(t, err)
		assert.Equal(t, "vpc-1", v)
	}
	assert.Equal(t, int32(1), p.calls.Load())
	assert.Equal(t, []string{"vpc"}, resolved)
}

func TestResourceRegistry_ResolveUnknownKey(t *testing.T) {
	t.Parallel()
	r := NewResourceRegistry()

	_, err := r.Resolve(newTestResourceContext(r), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.Key)
}

func TestResourceRegistry_FailedResolutionIsRetried(t *testing.T) {
	t.Parallel()
	r := NewResourceRegistry()
	p := &countingProvider{err: errors.New("throttled")}
	require.NoError(t, r.Register("kms", p))
	rc := newTestResourceContext(r)

	_, err := r.Resolve(rc, "kms")
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "kms", resErr.Key)

	p.err = nil
	p.value = "key-1"
	v, err := r.Resolve(rc, "kms")
	require.NoError(t, err)
	assert.Equal(t, "key-1", v)
	assert.Equal(t, int32(2), p.calls.Load())
}

func TestResourceRegistry_DetectsCycles(t *testing.T) {
	t.Parallel()
	r := NewResourceRegistry()
	require.NoError(t, r.Register("a", ResourceProviderFunc(func(rc *ResourceContext) (any, error) {
		return rc.Resolve("b")
	})))
	require.NoError(t, r.Register("b", ResourceProviderFunc(func(rc *ResourceContext) (any, error) {
		return rc.Resolve("a")
	})))

	_, err := r.Resolve(newTestResourceContext(r), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency cycle detected")
}

func TestResourceRegistry_ResolveAllInOrder(t *testing.T) {
	t.Parallel()
	r := NewResourceRegistry()
	var order []string
	for _, key := range []string{"network", "kms", "bucket"} {
		require.NoError(t, r.Register(key, ResourceProviderFunc(func(*ResourceContext) (any, error) {
			order = append(order, key)
			return key, nil
		})))
	}

	require.NoError(t, r.ResolveAll(newTestResourceContext(r)))
	assert.Equal(t, []string{"network", "kms", "bucket"}, order)
}

func TestResourceRegistry_LookupNeverResolves(t *testing.T) {
	t.Parallel()
	r := NewResourceRegistry()
	p := &countingProvider{value: 42}
	require.NoError(t, r.Register("answer", p))

	_, err := r.Lookup("answer")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(0), p.calls.Load())

	_, err = r.Resolve(newTestResourceContext(r), "answer")
	require.NoError(t, err)

	v, err := NamedResource[int](r, "answer")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = NamedResource[string](r, "answer")
	assert.Error(t, err)
}
