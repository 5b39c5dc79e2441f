package logger

import (
	"strings"
	"testing"
)

func TestRedactLongValue(t *testing.T) {
	got := Redact("123456789012-abcdefg.apps.googleusercontent.com")

	if got != "12345678...[REDACTED]" {
		t.Errorf("Redact produced %q", got)
	}

	if strings.Contains(got, "googleusercontent") {
		t.Error("Redact leaked the value body")
	}
}

func TestRedactShortValue(t *testing.T) {
	// Short values carry no safe prefix worth keeping.
	for _, v := range []string{"", "a", "12345678"} {
		if got := Redact(v); got != "[REDACTED]" {
			t.Errorf("Redact(%q) = %q, want fully redacted", v, got)
		}
	}
}

func TestRedactMultibyte(t *testing.T) {
	got := Redact("한글토큰값이아주길다길어")

	if !strings.HasSuffix(got, "...[REDACTED]") {
		t.Errorf("Redact produced %q", got)
	}
	if strings.Contains(got, "길다") {
		t.Error("Redact kept more than the prefix")
	}
}
