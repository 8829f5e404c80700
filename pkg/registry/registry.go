package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/drillsim/pkg/adapters/csv"
	"github.com/aretw0/drillsim/pkg/adapters/xlsx"
	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/aretw0/drillsim/pkg/ports"
)

// Registry maps export formats to their serializers.
type Registry struct {
	mu          sync.RWMutex
	serializers map[domain.Format]ports.TableSerializer
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		serializers: make(map[domain.Format]ports.TableSerializer),
	}
}

// Default returns a registry with the built-in CSV and XLSX serializers.
func Default() *Registry {
	r := NewRegistry()
	r.Register(csv.New())
	r.Register(xlsx.New())
	return r
}

// Clone returns an independent registry holding the same serializers.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := NewRegistry()
	for f, s := range r.serializers {
		c.serializers[f] = s
	}
	return c
}

// Register adds a serializer under its own format.
// If a serializer for the same format exists, it is overwritten.
func (r *Registry) Register(s ports.TableSerializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serializers[s.Format()] = s
}

// Lookup returns the serializer for format.
// Returns domain.ErrUnknownFormat if none is registered.
func (r *Registry) Lookup(format domain.Format) (ports.TableSerializer, error) {
	r.mu.RLock()
	s, ok := r.serializers[format]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
	}
	return s, nil
}

// Formats lists the registered formats in sorted order.
func (r *Registry) Formats() []domain.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]domain.Format, 0, len(r.serializers))
	for f := range r.serializers {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
