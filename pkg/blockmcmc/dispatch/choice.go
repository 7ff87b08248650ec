package dispatch

import (
	"reflect"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/config"
)

// Choice is one concrete type a type-list field may resolve to.
type Choice interface {
	// TypeName is the Go type name, used in signatures and error messages.
	TypeName() string

	resolve(b config.Bundle, field string) (any, error)
}

// Of returns the Choice for type T.
func Of[T any]() Choice {
	return choice[T]{}
}

type choice[T any] struct{}

func (choice[T]) TypeName() string {
	return reflect.TypeFor[T]().String()
}

func (choice[T]) resolve(b config.Bundle, field string) (any, error) {
	v, err := config.Extract[T](b, field)
	if err != nil {
		return nil, err
	}
	return v, nil
}
