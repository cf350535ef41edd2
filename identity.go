package idcache

import (
	"fmt"

	"github.com/hashicorp/go-uuid"
)

// Identifiable is implemented by values that can be stored.
//
// Identity must be stable for the lifetime of the value and shared by logically equal values.
type Identifiable interface {
	Identity() string
}

// Object carries a randomly generated identity, embed it to make a type Identifiable.
type Object struct {
	ID string
}

// NewObject creates an Object with a new random identity.
func NewObject() (Object, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return Object{}, fmt.Errorf("generate identity: %w", err)
	}

	return Object{ID: id}, nil
}

// MustNewObject creates an Object or panics if random source fails.
func MustNewObject() Object {
	o, err := NewObject()
	if err != nil {
		panic(err)
	}

	return o
}

// Identity implements Identifiable.
func (o Object) Identity() string {
	return o.ID
}

// Equal reports whether both objects have same identity.
func (o Object) Equal(other Object) bool {
	return o.ID == other.ID
}
