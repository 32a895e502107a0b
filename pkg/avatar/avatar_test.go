package avatar

import (
	"strings"
	"testing"
)

func TestURIDeterministic(t *testing.T) {
	a := URI("agent-123")
	b := URI("agent-123")
	if a != b {
		t.Errorf("same seed produced different URLs: %q vs %q", a, b)
	}
	if a == URI("agent-456") {
		t.Error("different seeds produced the same URL")
	}
}

func TestURIFormat(t *testing.T) {
	got := URI("my agent")
	if !strings.HasPrefix(got, "https://api.dicebear.com/9.x/botttsNeutral/svg?seed=") {
		t.Errorf("unexpected URL shape: %q", got)
	}
	if strings.Contains(got, " ") {
		t.Errorf("seed not escaped: %q", got)
	}
}

func TestURIWithVariantFallback(t *testing.T) {
	if got := URIWithVariant("s", ""); !strings.Contains(got, "botttsNeutral") {
		t.Errorf("empty variant should fall back to default, got %q", got)
	}
	if got := URIWithVariant("s", "initials"); !strings.Contains(got, "/initials/") {
		t.Errorf("variant not applied: %q", got)
	}
}
