package memory

import (
	"fmt"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
)

// Attribute implements ports.Attribute.
type Attribute struct {
	node     *Node
	name     string
	port     domain.PortType
	extended domain.ExtendedType
	dynamic  bool
	typ      domain.AttributeType
	value    any
	upstream int
}

var _ ports.Attribute = (*Attribute)(nil)

func (a *Attribute) Name() string                       { return a.name }
func (a *Attribute) Node() ports.Node                   { return a.node }
func (a *Attribute) Port() domain.PortType              { return a.port }
func (a *Attribute) Extended() domain.ExtendedType      { return a.extended }
func (a *Attribute) Dynamic() bool                      { return a.dynamic }
func (a *Attribute) ResolvedType() domain.AttributeType { return a.typ }
func (a *Attribute) UpstreamConnectionCount() int       { return a.upstream }
func (a *Attribute) Get() any                           { return a.value }

// SetResolvedType changes the attribute's type and re-coerces its current value.
// A value that does not fit the new type is dropped.
func (a *Attribute) SetResolvedType(t domain.AttributeType) error {
	if !a.typ.IsUnknown() && a.extended != domain.ExtendedAny {
		return fmt.Errorf("%w: %s has fixed type %s", domain.ErrTypeMismatch, a.name, a.typ)
	}
	a.typ = t
	if v, err := domain.Coerce(t, a.value); err == nil {
		a.value = v
	} else {
		a.value = nil
	}
	return nil
}

// Set stores value after coercing it to the resolved type.
func (a *Attribute) Set(value any) error {
	v, err := domain.Coerce(a.typ, value)
	if err != nil {
		return fmt.Errorf("set %s.%s: %w", a.node.path, a.name, err)
	}
	a.value = v
	return nil
}

func (a *Attribute) endpoint() domain.Endpoint {
	return domain.Endpoint{Node: a.node.path, Attribute: a.name}
}

func (a *Attribute) snapshot() domain.AttributeSnapshot {
	return domain.AttributeSnapshot{
		Name:          a.name,
		Port:          a.port,
		Type:          a.typ,
		Extended:      a.extended,
		Dynamic:       a.dynamic,
		Value:         a.value,
		UpstreamCount: a.upstream,
	}
}
