package utils

import (
	"strings"
	"testing"
)

func TestTRendersPerLocale(t *testing.T) {
	en := T("en", MsgBookingStatusChanged, 7, "paid")
	if !strings.Contains(en, "#7") || !strings.Contains(en, `"paid"`) {
		t.Fatalf("unexpected english message: %q", en)
	}

	fr := T("fr", MsgBookingStatusChanged, 7, "paid")
	if fr == en {
		t.Fatal("french message must differ from english")
	}
}

func TestTFallbacks(t *testing.T) {
	// Unknown locale falls back to english.
	if got, want := T("de", MsgBookingCancelRequest, 3), T("en", MsgBookingCancelRequest, 3); got != want {
		t.Fatalf("expected english fallback, got %q", got)
	}

	// Unknown key degrades to the key itself.
	if got := T("en", "no_such_key"); got != "no_such_key" {
		t.Fatalf("expected key echo for unknown key, got %q", got)
	}
}
