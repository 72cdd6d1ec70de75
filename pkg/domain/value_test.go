package domain

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestCoerce(t *testing.T) {
	color3 := AttributeType{Base: TypeDouble, TupleCount: 3}

	tests := []struct {
		name    string
		typ     AttributeType
		in      any
		want    any
		wantErr bool
	}{
		{"nil passes through", color3, nil, nil, false},
		{"bool", AttributeType{Base: TypeBool}, true, true, false},
		{"bool from string", AttributeType{Base: TypeBool}, "yes", nil, true},
		{"int from float", AttributeType{Base: TypeInt}, 3.0, 3, false},
		{"int from fraction", AttributeType{Base: TypeInt}, 3.5, nil, true},
		{"int beyond range", AttributeType{Base: TypeInt}, 1e19, nil, true},
		{"int below range", AttributeType{Base: TypeInt}, -1e19, nil, true},
		{"int from infinity", AttributeType{Base: TypeInt}, math.Inf(1), nil, true},
		{"int from json.Number", AttributeType{Base: TypeInt}, json.Number("42"), 42, false},
		{"double from int", AttributeType{Base: TypeDouble}, 2, 2.0, false},
		{"double from json.Number", AttributeType{Base: TypeDouble}, json.Number("0.25"), 0.25, false},
		{"double[3] from []any", color3, []any{0.1, 1, json.Number("0.5")}, []float64{0.1, 1, 0.5}, false},
		{"double[3] from []float64", color3, []float64{0.1, 0.2, 0.3}, []float64{0.1, 0.2, 0.3}, false},
		{"double[3] wrong length", color3, []any{0.1, 0.2}, nil, true},
		{"double[3] from scalar", color3, 0.1, nil, true},
		{"token", AttributeType{Base: TypeToken}, "abc", "abc", false},
		{"execution from name", AttributeType{Base: TypeExecution}, "enabled", ExecEnabled, false},
		{"execution from number", AttributeType{Base: TypeExecution}, 2.0, ExecEnabledAndPush, false},
		{"execution from bad name", AttributeType{Base: TypeExecution}, "on", nil, true},
		{"unknown normalizes", Unknown, []any{json.Number("1"), json.Number("1.5")}, []any{1, 1.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.typ, tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrTypeMismatch) {
					t.Fatalf("expected ErrTypeMismatch, got %v (value %v)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Coerce() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCoerce_CopiesSlices(t *testing.T) {
	in := []float64{0.1, 0.2, 0.3}
	got, err := Coerce(AttributeType{Base: TypeDouble, TupleCount: 3}, in)
	if err != nil {
		t.Fatal(err)
	}
	in[0] = 9
	if got.([]float64)[0] != 0.1 {
		t.Error("coerced slice aliases the input")
	}
}

func TestExecutionStateText(t *testing.T) {
	data, err := json.Marshal(map[string]any{"exec": ExecEnabled})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"exec":"ENABLED"}` {
		t.Errorf("unexpected encoding %s", data)
	}

	var decoded struct {
		Exec ExecutionState `json:"exec"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Exec != ExecEnabled {
		t.Errorf("decoded %v", decoded.Exec)
	}
}
