package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Coerce converts v to the Go representation used for attributes of type t:
//
//	bool         -> bool
//	int          -> int
//	double       -> float64
//	double[n]    -> []float64 of length n
//	string/token -> string
//	execution    -> ExecutionState
//
// Decoded JSON/YAML shapes (float64 numbers, json.Number, []any) are accepted.
// Values for unknown types are only normalized. A nil value is passed through.
func Coerce(t AttributeType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if t.IsUnknown() {
		return Normalize(v), nil
	}

	var (
		out any
		err error
	)
	switch t.Base {
	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			err = mismatch(t, v)
		}
		out = b
	case TypeInt:
		out, err = toInt(v)
	case TypeDouble:
		if t.TupleCount > 1 {
			out, err = toFloatSlice(v, t.TupleCount)
		} else {
			out, err = toFloat(v)
		}
	case TypeString, TypeToken:
		s, ok := v.(string)
		if !ok {
			err = mismatch(t, v)
		}
		out = s
	case TypeExecution:
		out, err = toExecutionState(v)
	default:
		return Normalize(v), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	return out, nil
}

// Normalize replaces json.Number values (at any depth of []any / map[string]any)
// with int or float64.
func Normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

func mismatch(t AttributeType, v any) error {
	return fmt.Errorf("cannot use %T as %s", v, t)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("cannot use %T as double", v)
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		// float64(math.MaxInt) rounds up to 2^63, which int cannot hold.
		if n < float64(math.MinInt) || n >= float64(math.MaxInt) {
			return 0, fmt.Errorf("%v overflows int", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	default:
		return 0, fmt.Errorf("cannot use %T as int", v)
	}
}

func toFloatSlice(v any, n int) ([]float64, error) {
	var out []float64
	switch s := v.(type) {
	case []float64:
		out = append([]float64(nil), s...)
	case []any:
		out = make([]float64, len(s))
		for i, item := range s {
			f, err := toFloat(item)
			if err != nil {
				return nil, fmt.Errorf("component %d: %w", i, err)
			}
			out[i] = f
		}
	default:
		return nil, fmt.Errorf("cannot use %T as double[%d]", v, n)
	}
	if len(out) != n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(out))
	}
	return out, nil
}

func toExecutionState(v any) (ExecutionState, error) {
	switch s := v.(type) {
	case ExecutionState:
		return s, nil
	case string:
		return ParseExecutionState(s)
	default:
		i, err := toInt(v)
		if err != nil {
			return 0, err
		}
		return ExecutionState(i), nil
	}
}

// ParseExecutionState parses the names produced by ExecutionState.String, case-insensitively.
func ParseExecutionState(s string) (ExecutionState, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DISABLED":
		return ExecDisabled, nil
	case "ENABLED":
		return ExecEnabled, nil
	case "ENABLED_AND_PUSH":
		return ExecEnabledAndPush, nil
	default:
		return 0, fmt.Errorf("unknown execution state %q", s)
	}
}

// MarshalText encodes the state by name.
func (s ExecutionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *ExecutionState) UnmarshalText(text []byte) error {
	v, err := ParseExecutionState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
