package domain_test

import (
	"encoding/json"
	"testing"

	"go.trai.ch/vrog/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	is1 := domain.NewInternedString("main.o")
	is2 := domain.NewInternedString("main.o")

	if is1.Value() != is2.Value() {
		t.Errorf("Expected handles to be equal for identical strings, got %v and %v", is1.Value(), is2.Value())
	}

	if is1.String() != "main.o" {
		t.Errorf("Expected String() to return %q, got %q", "main.o", is1.String())
	}
}

func TestInternedString_Zero(t *testing.T) {
	var zero domain.InternedString

	if !zero.IsZero() {
		t.Error("Expected zero value to report IsZero")
	}
	if zero.String() != "" {
		t.Errorf("Expected empty string for zero value, got %q", zero.String())
	}
	if domain.NewInternedString("").IsZero() {
		t.Error("Expected interned empty string not to be the zero value")
	}
}

func TestInternedStringJSON(t *testing.T) {
	type rule struct {
		Target domain.InternedString `json:"target"`
	}

	original := rule{Target: domain.NewInternedString("example.out")}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal struct: %v", err)
	}

	if string(data) != `{"target":"example.out"}` {
		t.Errorf("Unexpected JSON %q", string(data))
	}

	var decoded rule
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal struct: %v", err)
	}
	if decoded.Target != original.Target {
		t.Errorf("Expected %q, got %q", original.Target, decoded.Target)
	}
}

func TestNewInternedStrings(t *testing.T) {
	t.Run("Preserves order", func(t *testing.T) {
		in := []string{"a.o", "b.o", "main.o"}

		out := domain.NewInternedStrings(in)

		if len(out) != len(in) {
			t.Fatalf("Expected %d interned strings, got %d", len(in), len(out))
		}
		for i, expected := range in {
			if out[i].String() != expected {
				t.Errorf("Expected %q at index %d, got %q", expected, i, out[i].String())
			}
		}
	})

	t.Run("Round trips through Strings", func(t *testing.T) {
		in := []string{"x", "y"}
		got := domain.Strings(domain.NewInternedStrings(in))
		if len(got) != 2 || got[0] != "x" || got[1] != "y" {
			t.Errorf("Unexpected round trip result: %v", got)
		}
	})

	t.Run("Empty slice returns empty slice", func(t *testing.T) {
		if got := domain.NewInternedStrings(nil); len(got) != 0 {
			t.Errorf("Expected empty slice, got %d elements", len(got))
		}
	})
}
