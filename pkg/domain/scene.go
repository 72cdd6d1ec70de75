package domain

import (
	"fmt"
	"strings"
)

// Scene describes a graph to be built on a host: its nodes, their initial values and wiring.
type Scene struct {
	Name        string       `json:"name" yaml:"name" mapstructure:"name"`
	Nodes       []SceneNode  `json:"nodes" yaml:"nodes" mapstructure:"nodes"`
	Connections []Connection `json:"connections,omitempty" yaml:"connections,omitempty" mapstructure:"connections"`
	// Steps is the number of evaluation passes to run. Zero means one.
	Steps int `json:"steps,omitempty" yaml:"steps,omitempty" mapstructure:"steps"`
}

// SceneNode is a node instance inside a Scene.
type SceneNode struct {
	Path string `json:"path" yaml:"path" mapstructure:"path"`
	Type string `json:"type" yaml:"type" mapstructure:"type"`
	// Dynamic lists attributes to add on top of the type's definition.
	Dynamic []AttributeSpec `json:"dynamic,omitempty" yaml:"dynamic,omitempty" mapstructure:"dynamic"`
	// Values sets attribute values (full names) after the node is initialized.
	Values map[string]any `json:"values,omitempty" yaml:"values,omitempty" mapstructure:"values"`
	Note   string         `json:"note,omitempty" yaml:"note,omitempty" mapstructure:"note"`
}

// Connection wires an upstream attribute to a downstream one.
// Both ends use the "nodePath.attributeName" form.
type Connection struct {
	From string `json:"from" yaml:"from" mapstructure:"from"`
	To   string `json:"to" yaml:"to" mapstructure:"to"`
}

// Endpoint is a parsed connection end.
type Endpoint struct {
	Node      string
	Attribute string
}

func (e Endpoint) String() string {
	return e.Node + "." + e.Attribute
}

// ParseEndpoint splits "nodePath.attributeName" at the last dot.
func ParseEndpoint(s string) (Endpoint, error) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return Endpoint{}, fmt.Errorf("%w: endpoint %q must be node.attribute", ErrInvalidAttributeName, s)
	}
	ep := Endpoint{Node: s[:i], Attribute: s[i+1:]}
	if _, err := PortOf(ep.Attribute); err != nil {
		return Endpoint{}, err
	}
	return ep, nil
}
