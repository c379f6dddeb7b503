package berth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lazyHolder struct {
	first *Lazy[FirstDep]
}

func TestLazy_Get(t *testing.T) {
	c := NewCollection()
	calls := 0
	AddSingleton(c, func(Resolver) (FirstDep, error) {
		calls++
		return newFirstDep(), nil
	})

	p := c.MustBuild()
	lazy := NewLazy[FirstDep](p)

	// Should not be resolved yet
	assert.False(t, lazy.IsResolved())
	assert.Equal(t, 0, calls)
	assert.Equal(t, KeyOf[FirstDep](), lazy.Key())

	first, err := lazy.Get()
	require.NoError(t, err)
	assert.Same(t, Must[FirstDep](p), first)
	assert.True(t, lazy.IsResolved())

	// Second get returns the same value without resolving again
	again, err := lazy.Get()
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, calls)
}

func TestLazy_Error(t *testing.T) {
	lazy := NewLazy[FirstDep](NewCollection().MustBuild())

	_, err := lazy.Get()
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.False(t, lazy.IsResolved())

	assert.Panics(t, func() {
		lazy.MustGet()
	})
}

func TestLazy_InsideScopedFactory(t *testing.T) {
	c := NewCollection()
	AddScoped(c, func(Resolver) (FirstDep, error) {
		return newFirstDep(), nil
	})
	AddScoped(c, func(r Resolver) (*lazyHolder, error) {
		return &lazyHolder{first: NewLazy[FirstDep](r)}, nil
	})

	p := c.MustBuild()
	scope := p.CreateScope()

	holder := Must[*lazyHolder](scope)

	// Deferred lookup goes to the scope the holder was built in
	assert.Same(t, Must[FirstDep](scope), holder.first.MustGet())
	assert.NotSame(t, Must[FirstDep](p), holder.first.MustGet())
}

func TestOptionalLazy_Found(t *testing.T) {
	c := NewCollection()
	AddValue[FirstDep](c, newFirstDep())

	p := c.MustBuild()
	lazy := NewOptionalLazy[FirstDep](p)

	first, err := lazy.Get()
	require.NoError(t, err)
	assert.NotNil(t, first)
	assert.True(t, lazy.IsFound())
	assert.Equal(t, KeyOf[FirstDep](), lazy.Key())
}

func TestOptionalLazy_NotFound(t *testing.T) {
	lazy := NewOptionalLazy[FirstDep](NewCollection().MustBuild())

	first, err := lazy.Get()
	assert.NoError(t, err)
	assert.Nil(t, first)
	assert.False(t, lazy.IsFound())

	assert.NotPanics(t, func() {
		lazy.MustGet()
	})
}

func TestOptionalLazy_ConcurrentAccess(t *testing.T) {
	c := NewCollection()
	AddValue[FirstDep](c, newFirstDep())

	lazy := NewOptionalLazy[FirstDep](c.MustBuild())

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := lazy.Get()
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_ = lazy.IsFound()
		}()
	}

	wg.Wait()
	assert.True(t, lazy.IsFound())
}

func TestOptionalLazy_MissingTransitiveDependency(t *testing.T) {
	c := NewCollection()
	Provide1(c, Singleton, func(second SecondDep) (FirstDep, error) {
		return &firstDep{id: second.Value()}, nil
	})

	lazy := NewOptionalLazy[FirstDep](c.MustBuild())

	// FirstDep is registered; its own dependency is what is missing
	_, err := lazy.Get()
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.False(t, lazy.IsFound())

	assert.Panics(t, func() {
		lazy.MustGet()
	})
}

func TestSupplier_Transient(t *testing.T) {
	c := NewCollection()
	AddTransient(c, func(Resolver) (*testService, error) {
		return &testService{}, nil
	})

	supplier := NewSupplier[*testService](c.MustBuild())

	a, err := supplier.Get()
	require.NoError(t, err)
	b := supplier.MustGet()

	assert.NotSame(t, a, b)
}

func TestSupplier_Error(t *testing.T) {
	supplier := NewSupplier[*testService](NewCollection().MustBuild())

	_, err := supplier.Get()
	assert.ErrorIs(t, err, ErrServiceNotFound)

	assert.Panics(t, func() {
		supplier.MustGet()
	})
}
