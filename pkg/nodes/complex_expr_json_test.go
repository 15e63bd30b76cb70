package nodes

import (
	"encoding/json"
	"testing"
)

func TestComplexExprMarshal(t *testing.T) {
	data, err := json.Marshal(At(NewComplexExpr(complex(0, 2.5)), 3))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"ComplexExpr","line":3,"real":0,"imag":2.5}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestComplexExprMarshalNil(t *testing.T) {
	var e *ComplexExpr
	data, err := e.MarshalJSON()
	if err != nil || string(data) != "null" {
		t.Fatalf("got %s, %v", data, err)
	}
}

func TestLinelessNodesOmitLine(t *testing.T) {
	data, err := json.Marshal(Name("None"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"NameExpr","name":"None"}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}
