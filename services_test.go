package berth

import (
	"errors"

	"github.com/google/uuid"
)

type FirstDep interface {
	ID() string
}

type firstDep struct {
	id string
}

func (f *firstDep) ID() string {
	return f.id
}

func newFirstDep() *firstDep {
	return &firstDep{id: uuid.NewString()}
}

type SecondDep interface {
	Value() string
}

type secondDep struct {
	id string
}

func (s *secondDep) Value() string {
	return s.id
}

type ThirdDep interface {
	First() FirstDep
	Second() SecondDep
}

type thirdDep struct {
	first  FirstDep
	second SecondDep
}

func (t *thirdDep) First() FirstDep {
	return t.first
}

func (t *thirdDep) Second() SecondDep {
	return t.second
}

type testService struct {
	value string
}

var errFactory = errors.New("factory failed")

// counter counts factory invocations.
type counter struct {
	calls int
}

func (c *counter) factory(value string) func(Resolver) (*testService, error) {
	return func(Resolver) (*testService, error) {
		c.calls++

		return &testService{value: value}, nil
	}
}

// sampleCollection registers FirstDep as singleton, SecondDep as transient
// and ThirdDep as scoped, with ThirdDep depending on the other two.
func sampleCollection() *Collection {
	c := NewCollection()

	AddSingleton(c, func(Resolver) (FirstDep, error) {
		return newFirstDep(), nil
	})
	AddTransient(c, func(Resolver) (SecondDep, error) {
		return &secondDep{id: uuid.NewString()}, nil
	})
	Provide2(c, Scoped, func(first FirstDep, second SecondDep) (ThirdDep, error) {
		return &thirdDep{first: first, second: second}, nil
	})

	return c
}
