package company

import (
	"strings"
	"testing"
)

func TestInject(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Amazon", "amazon", "  AMAZON "} {
		block := Inject(name)
		if !strings.Contains(block, "Leadership Principles") || !strings.Contains(block, "Customer Obsession") {
			t.Fatalf("expected leadership principles for %q, got %q", name, block)
		}
		if !Known(name) {
			t.Fatalf("expected %q to be known", name)
		}
	}

	for _, name := range []string{"", "Google", "amazon web services", "Amaz0n"} {
		if block := Inject(name); block != "" {
			t.Fatalf("expected no content for %q, got %q", name, block)
		}
	}
}
