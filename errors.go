package munch

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is matched by every *KeyError.
	ErrKeyNotFound = errors.New("key not found")
	// ErrAttributeNotFound is matched by an *AttributeError for a name that
	// no lookup tier resolves.
	ErrAttributeNotFound = errors.New("attribute not found")
	// ErrInvalidAttributeName is matched by an *AttributeError for a name
	// that is not identifier-shaped.
	ErrInvalidAttributeName = errors.New("invalid attribute name")
	// ErrNotMapping is returned when a mapping was required but something
	// else was supplied.
	ErrNotMapping = errors.New("not a mapping")
	// ErrCycle is returned by encoders that cannot represent a cyclic
	// structure.
	ErrCycle = errors.New("cyclic structure")
	// ErrKeyCollision is returned when distinct keys would be written
	// under the same name.
	ErrKeyCollision = errors.New("key collision")
)

// A KeyError reports a keyed read or delete of an absent key.
type KeyError struct {
	Key any
}

func (e *KeyError) Error() string {
	return "munch: key " + Repr(e.Key) + " not found"
}

func (e *KeyError) Unwrap() error { return ErrKeyNotFound }

// An AttributeError reports an attribute read, write or delete that could
// not be satisfied. Err is ErrAttributeNotFound or ErrInvalidAttributeName.
type AttributeError struct {
	Name string
	Err  error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("munch: attribute %q: %s", e.Name, e.Err)
}

func (e *AttributeError) Unwrap() error { return e.Err }

func attributeNotFound(name string) error {
	return &AttributeError{Name: name, Err: ErrAttributeNotFound}
}
