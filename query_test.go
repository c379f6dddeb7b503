package berth

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

var compareKeys = cmp.Comparer(func(a, b Key) bool { return a == b })

func queryCollection() *Collection {
	c := sampleCollection()
	AddSingleton(c, func(Resolver) (*testService, error) {
		return &testService{value: "tagged"}, nil
	}, WithMetadata("layer", "storage"), WithMetadata("driver", "postgres"), WithDisplayName("db"))

	return c
}

func TestQuery_ByLifetime(t *testing.T) {
	p := queryCollection().MustBuild()

	want := []ServiceInfo{
		{Key: KeyOf[FirstDep](), Name: "berth.FirstDep", Lifetime: Singleton},
		{
			Key:      KeyOf[*testService](),
			Name:     "db",
			Lifetime: Singleton,
			Metadata: map[string]string{"layer": "storage", "driver": "postgres"},
		},
	}

	if diff := cmp.Diff(want, FindByLifetime(p, Singleton), compareKeys); diff != "" {
		t.Errorf("FindByLifetime() mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_Dependencies(t *testing.T) {
	p := queryCollection().MustBuild()

	want := []ServiceInfo{{
		Key:          KeyOf[ThirdDep](),
		Name:         "berth.ThirdDep",
		Lifetime:     Scoped,
		Dependencies: []Key{KeyOf[FirstDep](), KeyOf[SecondDep]()},
	}}

	if diff := cmp.Diff(want, FindByLifetime(p, Scoped), compareKeys); diff != "" {
		t.Errorf("FindByLifetime() mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_ByMetadata(t *testing.T) {
	p := queryCollection().MustBuild()

	assert.Equal(t, []Key{KeyOf[*testService]()}, QueryKeys(p, ServiceQuery{
		Metadata: map[string]string{"layer": "storage", "driver": "postgres"},
	}))

	results := FindByMetadata(p, "driver", "mysql")
	assert.Empty(t, results)

	results = FindByMetadata(p, "missing", "")
	assert.Empty(t, results)
}

func TestQuery_Instantiated(t *testing.T) {
	p := queryCollection().MustBuild()

	assert.Empty(t, FindInstantiated(p))

	_ = Must[ThirdDep](p)

	// Transients are never cached, so only FirstDep and ThirdDep show up
	want := []ServiceInfo{
		{Key: KeyOf[FirstDep](), Name: "berth.FirstDep", Lifetime: Singleton, Instantiated: true},
		{
			Key:          KeyOf[ThirdDep](),
			Name:         "berth.ThirdDep",
			Lifetime:     Scoped,
			Dependencies: []Key{KeyOf[FirstDep](), KeyOf[SecondDep]()},
			Instantiated: true,
		},
	}

	if diff := cmp.Diff(want, FindInstantiated(p), compareKeys, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("FindInstantiated() mismatch (-want +got):\n%s", diff)
	}

	notBuilt := false
	assert.Equal(t,
		[]Key{KeyOf[SecondDep](), KeyOf[*testService]()},
		QueryKeys(p, ServiceQuery{Instantiated: &notBuilt}),
	)
}

func TestQuery_ScopedInstancesNotReported(t *testing.T) {
	p := queryCollection().MustBuild()

	scope := p.CreateScope()
	_ = Must[ThirdDep](scope)

	// The singleton dependency was cached by the provider, the scoped service by the scope
	assert.Equal(t, []Key{KeyOf[FirstDep]()}, QueryKeys(p, ServiceQuery{Instantiated: boolPtr(true)}))
}

func TestQuery_Combined(t *testing.T) {
	p := queryCollection().MustBuild()
	_ = Must[*testService](p)

	assert.Equal(t, []Key{KeyOf[*testService]()}, QueryKeys(p, ServiceQuery{
		Lifetime:     Singleton,
		Metadata:     map[string]string{"layer": "storage"},
		Instantiated: boolPtr(true),
	}))

	assert.Empty(t, QueryKeys(p, ServiceQuery{
		Lifetime: Transient,
		Metadata: map[string]string{"layer": "storage"},
	}))
}

func TestQuery_AllServices(t *testing.T) {
	p := queryCollection().MustBuild()

	assert.Equal(t, p.Keys(), QueryKeys(p, ServiceQuery{}))
}

func TestProvider_Inspect_Unregistered(t *testing.T) {
	p := NewCollection().MustBuild()

	want := ServiceInfo{Key: KeyOf[FirstDep](), Name: "berth.FirstDep"}
	if diff := cmp.Diff(want, p.Inspect(KeyOf[FirstDep]()), compareKeys); diff != "" {
		t.Errorf("Inspect() mismatch (-want +got):\n%s", diff)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
