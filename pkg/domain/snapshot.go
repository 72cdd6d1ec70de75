package domain

import "time"

// GraphSnapshot is a serializable picture of a host graph after evaluation.
type GraphSnapshot struct {
	ID          string         `json:"id"`
	Scene       string         `json:"scene,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Nodes       []NodeSnapshot `json:"nodes"`
	Connections []Connection   `json:"connections,omitempty"`
	// Sealed holds the encrypted snapshot when it was stored through an
	// encrypting store. Nodes and Connections are empty in that case.
	Sealed []byte `json:"sealed,omitempty"`
}

// NodeSnapshot captures one node and its attributes.
type NodeSnapshot struct {
	Path       string              `json:"path"`
	Type       string              `json:"type"`
	Attributes []AttributeSnapshot `json:"attributes"`
	// LastCompute is the result of the most recent compute, nil if never computed.
	LastCompute *bool `json:"last_compute,omitempty"`
}

// AttributeSnapshot captures one attribute's type, value and wiring.
type AttributeSnapshot struct {
	Name          string        `json:"name"`
	Port          PortType      `json:"port"`
	Type          AttributeType `json:"type"`
	Extended      ExtendedType  `json:"extended,omitempty"`
	Dynamic       bool          `json:"dynamic,omitempty"`
	Value         any           `json:"value,omitempty"`
	UpstreamCount int           `json:"upstream_count,omitempty"`
}

// Node returns the snapshot of the node at path, if present.
func (g *GraphSnapshot) Node(path string) (NodeSnapshot, bool) {
	for _, n := range g.Nodes {
		if n.Path == path {
			return n, true
		}
	}
	return NodeSnapshot{}, false
}

// Attribute returns the named attribute snapshot, if present.
func (n NodeSnapshot) Attribute(name string) (AttributeSnapshot, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return AttributeSnapshot{}, false
}
