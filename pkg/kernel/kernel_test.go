package kernel_test

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/go-kernelc/pkg/kernel"
)

func TestNewAndLowerLiteralReturn(t *testing.T) {
	u, err := kernel.New(kernel.Config{
		SourceText: "function(){ return 1; }",
		Output:     []int{1},
	})
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	if u.Name() == "" {
		t.Fatalf("expected a derived function name")
	}

	out, err := u.Lower(kernel.DefaultHandlers{}, map[kernel.Type]string{kernel.Number: "float"})
	if err != nil {
		t.Fatalf("unexpected lowering error: %v", err)
	}
	snaps.MatchSnapshot(t, "literal_return_lowered", out)
}

func TestArgumentTypeDirect(t *testing.T) {
	u, err := kernel.New(kernel.Config{
		SourceText:    "function(a){ return a; }",
		ArgumentNames: []string{"a"},
		ArgumentTypes: []kernel.Type{kernel.Array4},
		Output:        []int{1},
	})
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	got, ok := u.ArgumentType("a")
	if !ok || got != kernel.Array4 {
		t.Fatalf("expected Array(4) for argument a, got %v (%v)", got, ok)
	}
	if _, ok := u.ArgumentType("nonexistent"); ok {
		t.Fatalf("expected no argument type for an unknown name")
	}
}

func TestRoundTripThroughFacade(t *testing.T) {
	u, err := kernel.New(kernel.Config{
		SourceText:    "function(a){ return a[0]; }",
		ArgumentNames: []string{"a"},
		ArgumentTypes: []kernel.Type{kernel.Array},
		Output:        []int{4, 4},
	})
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}

	payload, err := u.ToJSON()
	if err != nil {
		t.Fatalf("unexpected ToJSON error: %v", err)
	}
	if !strings.Contains(payload, "\"settings\"") {
		t.Fatalf("expected a settings object in the payload, got %s", payload)
	}

	cfg, err := kernel.FromJSON(payload)
	if err != nil {
		t.Fatalf("unexpected FromJSON error: %v", err)
	}
	u2, err := kernel.New(cfg)
	if err != nil {
		t.Fatalf("unexpected reconstruction error: %v", err)
	}
	if u2.Name() != u.Name() || u2.ReturnType() != u.ReturnType() {
		t.Fatalf("round-tripped unit diverges: name %q vs %q, returnType %q vs %q",
			u2.Name(), u.Name(), u2.ReturnType(), u.ReturnType())
	}
}

func TestIndexLookup(t *testing.T) {
	elem, ok := kernel.Index(kernel.Array4)
	if !ok || elem != kernel.Number {
		t.Fatalf("expected Array(4) to index to Number, got %v (%v)", elem, ok)
	}
	if _, ok := kernel.Index(kernel.Boolean); ok {
		t.Fatalf("expected Boolean to not be indexable")
	}
}
