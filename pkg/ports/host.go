package ports

import (
	"context"
	"log/slog"

	"github.com/aretw0/morenodes/pkg/domain"
)

// Attribute is a host-owned attribute on a node.
type Attribute interface {
	// Name is the full attribute name, e.g. "inputs:dataIn0".
	Name() string
	Node() Node
	Port() domain.PortType
	Extended() domain.ExtendedType
	// Dynamic reports whether the attribute was added after node creation.
	Dynamic() bool

	ResolvedType() domain.AttributeType
	SetResolvedType(t domain.AttributeType) error

	// UpstreamConnectionCount is the number of connections feeding this attribute.
	UpstreamConnectionCount() int

	Get() any
	Set(value any) error
}

// ConnectionCallback is invoked by the host when a connection touching a node is made or broken.
type ConnectionCallback func(ctx context.Context, upstream, downstream Attribute) error

// Node is a host-owned graph node.
type Node interface {
	// Path is the unique location of the node in its graph.
	Path() string
	TypeName() string

	Attributes() []Attribute
	Attribute(name string) (Attribute, bool)
	CreateAttribute(spec domain.AttributeSpec) (Attribute, error)
	RemoveAttribute(name string) error

	RegisterOnConnected(cb ConnectionCallback)
	RegisterOnDisconnected(cb ConnectionCallback)
}

// Values gives access to a node's attributes in one namespace by short name ("data0", "execOut").
type Values interface {
	Get(name string) (any, bool)
	Set(name string, value any) error
}

// Database is the view of a node handed to Compute.
type Database interface {
	Node() Node
	Inputs() Values
	Outputs() Values
	DynamicInputs() []Attribute
	DynamicOutputs() []Attribute
	// InternalState is the value returned by InternalStater.NewInternalState, or nil.
	InternalState() any
	Logger() *slog.Logger
}

// Timeline exposes the host's playback clock.
type Timeline interface {
	CurrentTime() float64
}
