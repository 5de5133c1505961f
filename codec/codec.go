// Package codec turns pair results into bytes and back.
//
// A pair export records the name of its codec in the file header and is
// decoded by looking that name up here, so a registered name is part of the
// file format and must keep its meaning.
package codec

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// MaxNameLen is the longest codec name a file header can record.
const MaxNameLen = 255

// ErrDuplicateName is returned by Register when the name is taken.
var ErrDuplicateName = errors.New("codec: name already registered")

// Codec converts values to and from bytes.
// Implementations must be safe for concurrent use.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}

var (
	mu       sync.RWMutex
	registry = map[string]Codec{
		JSON{}.Name():   JSON{},
		GoJSON{}.Name(): GoJSON{},
	}
)

// Register makes c available to Lookup under c.Name().
func Register(c Codec) error {
	if c == nil {
		return errors.New("codec: nil codec")
	}
	name := c.Name()
	if name == "" || len(name) > MaxNameLen {
		return fmt.Errorf("codec: invalid name %q", name)
	}

	mu.Lock()
	defer mu.Unlock()

	if _, dup := registry[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	registry[name] = c
	return nil
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, bool) {
	mu.RLock()
	defer mu.RUnlock()

	c, ok := registry[name]
	return c, ok
}

// Names returns the registered names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	return slices.Sorted(maps.Keys(registry))
}
