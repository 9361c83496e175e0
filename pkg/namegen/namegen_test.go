package namegen

import (
	"strings"
	"testing"
)

func TestGenerateShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		name := Generate()
		parts := strings.Split(name, "-")
		if len(parts) != 2 {
			t.Fatalf("Expected adjective-animal, got %q", name)
		}
		if parts[0] == "" || parts[1] == "" {
			t.Fatalf("Empty name component in %q", name)
		}
	}
}

func TestGenerateVariety(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[Generate()] = true
	}
	// With 60x60 combinations, 200 draws should not collapse to a handful
	if len(seen) < 50 {
		t.Errorf("Expected varied names, got only %d distinct in 200 draws", len(seen))
	}
}
