package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AttributeSpec declares an attribute to be created on a node.
type AttributeSpec struct {
	Name     string        `json:"name" yaml:"name" mapstructure:"name"`
	Type     AttributeType `json:"type" yaml:"type" mapstructure:"type"`
	Extended ExtendedType  `json:"extended,omitempty" yaml:"extended,omitempty" mapstructure:"extended"`
	Default  any           `json:"default,omitempty" yaml:"default,omitempty" mapstructure:"default"`
	// Dynamic marks attributes added after the node was created, as opposed to those in its definition.
	Dynamic bool `json:"dynamic,omitempty" yaml:"dynamic,omitempty" mapstructure:"dynamic"`
}

// Port derives the port direction from the attribute's namespace.
func (s AttributeSpec) Port() (PortType, error) {
	return PortOf(s.Name)
}

// PortOf derives the port direction from a full attribute name.
func PortOf(name string) (PortType, error) {
	switch {
	case strings.HasPrefix(name, InputsPrefix) && len(name) > len(InputsPrefix):
		return PortInput, nil
	case strings.HasPrefix(name, OutputsPrefix) && len(name) > len(OutputsPrefix):
		return PortOutput, nil
	case strings.HasPrefix(name, StatePrefix) && len(name) > len(StatePrefix):
		return PortState, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAttributeName, name)
	}
}

// ShortName strips the namespace from a full attribute name ("inputs:data0" -> "data0").
func ShortName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// IndexedName builds names of the form base+i, e.g. IndexedName("inputs:dataIn", 2) == "inputs:dataIn2".
func IndexedName(base string, i int) string {
	return base + strconv.Itoa(i)
}

// ParseIndex extracts the decimal suffix of an indexed name.
// It reports false if name does not start with base or the suffix is not a non-negative integer.
func ParseIndex(base, name string) (int, bool) {
	suffix, ok := strings.CutPrefix(name, base)
	if !ok || suffix == "" {
		return 0, false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return i, true
}

// NodeDefinition is the static description of a node type.
type NodeDefinition struct {
	Name string `json:"name"`
	// Description is Markdown shown by "nodes describe".
	Description string          `json:"description"`
	Attributes  []AttributeSpec `json:"attributes"`
}
