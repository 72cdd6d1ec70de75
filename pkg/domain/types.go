package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// BaseDataType is the scalar kind of an attribute value.
type BaseDataType string

const (
	TypeUnknown   BaseDataType = "unknown"
	TypeBool      BaseDataType = "bool"
	TypeInt       BaseDataType = "int"
	TypeDouble    BaseDataType = "double"
	TypeString    BaseDataType = "string"
	TypeToken     BaseDataType = "token"
	TypeExecution BaseDataType = "execution"
)

// AttributeType describes the resolved type of an attribute.
// TupleCount is 0 or 1 for scalars; 3 for e.g. a double[3] color.
type AttributeType struct {
	Base       BaseDataType `json:"base" yaml:"base" mapstructure:"base"`
	TupleCount int          `json:"tuple_count,omitempty" yaml:"tuple_count,omitempty" mapstructure:"tuple_count"`
}

// Unknown is the type of an attribute whose type has not been resolved yet.
var Unknown = AttributeType{Base: TypeUnknown}

// IsUnknown reports whether the type is still unresolved.
func (t AttributeType) IsUnknown() bool {
	return t.Base == "" || t.Base == TypeUnknown
}

func (t AttributeType) String() string {
	if t.IsUnknown() {
		return string(TypeUnknown)
	}
	if t.TupleCount > 1 {
		return fmt.Sprintf("%s[%d]", t.Base, t.TupleCount)
	}
	return string(t.Base)
}

// PortType is the direction of an attribute.
type PortType string

const (
	PortInput  PortType = "input"
	PortOutput PortType = "output"
	PortState  PortType = "state"
)

// ExtendedType marks attributes that accept more than one type.
type ExtendedType string

const (
	ExtendedRegular ExtendedType = "regular"
	ExtendedAny     ExtendedType = "any"
)

// ExecutionState is the value carried by execution attributes.
type ExecutionState int

const (
	ExecDisabled ExecutionState = iota
	ExecEnabled
	ExecEnabledAndPush
)

func (s ExecutionState) String() string {
	switch s {
	case ExecDisabled:
		return "DISABLED"
	case ExecEnabled:
		return "ENABLED"
	case ExecEnabledAndPush:
		return "ENABLED_AND_PUSH"
	default:
		return fmt.Sprintf("ExecutionState(%d)", int(s))
	}
}

// ParseAttributeType parses the form produced by AttributeType.String,
// e.g. "double", "double[3]" or "unknown".
func ParseAttributeType(s string) (AttributeType, error) {
	s = strings.TrimSpace(s)
	base, count := s, 0
	if i := strings.IndexByte(s, '['); i >= 0 {
		if !strings.HasSuffix(s, "]") {
			return AttributeType{}, fmt.Errorf("%w: malformed type %q", ErrTypeMismatch, s)
		}
		n, err := strconv.Atoi(s[i+1 : len(s)-1])
		if err != nil || n < 1 {
			return AttributeType{}, fmt.Errorf("%w: bad tuple count in %q", ErrTypeMismatch, s)
		}
		base, count = s[:i], n
	}

	switch t := BaseDataType(base); t {
	case TypeUnknown, "":
		return Unknown, nil
	case TypeBool, TypeInt, TypeDouble, TypeString, TypeToken, TypeExecution:
		return AttributeType{Base: t, TupleCount: count}, nil
	default:
		return AttributeType{}, fmt.Errorf("%w: unknown base type %q", ErrTypeMismatch, base)
	}
}
