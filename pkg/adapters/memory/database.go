package memory

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
)

type database struct {
	node   *Node
	logger *slog.Logger
}

var _ ports.Database = (*database)(nil)

func (d *database) Node() ports.Node     { return d.node }
func (d *database) InternalState() any   { return d.node.state }
func (d *database) Logger() *slog.Logger { return d.logger }

func (d *database) Inputs() ports.Values {
	return namespace{node: d.node, prefix: domain.InputsPrefix}
}

func (d *database) Outputs() ports.Values {
	return namespace{node: d.node, prefix: domain.OutputsPrefix}
}

func (d *database) DynamicInputs() []ports.Attribute  { return d.dynamic(domain.PortInput) }
func (d *database) DynamicOutputs() []ports.Attribute { return d.dynamic(domain.PortOutput) }

func (d *database) dynamic(port domain.PortType) []ports.Attribute {
	var out []ports.Attribute
	for _, name := range d.node.order {
		a := d.node.attrs[name]
		if a.dynamic && a.port == port {
			out = append(out, a)
		}
	}
	return out
}

// namespace resolves short names against one attribute namespace.
type namespace struct {
	node   *Node
	prefix string
}

func (ns namespace) Get(name string) (any, bool) {
	a, ok := ns.node.attrs[ns.prefix+name]
	if !ok {
		return nil, false
	}
	return a.value, true
}

func (ns namespace) Set(name string, value any) error {
	a, ok := ns.node.attrs[ns.prefix+name]
	if !ok {
		return fmt.Errorf("%w: %s.%s%s", domain.ErrAttributeNotFound, ns.node.path, ns.prefix, name)
	}
	return a.Set(value)
}
