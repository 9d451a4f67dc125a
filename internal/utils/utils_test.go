package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestExtractHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://prismsoftwaresolutions.com", "prismsoftwaresolutions.com"},
		{"http://127.0.0.1:8080/about", "127.0.0.1"},
		{"https://WWW.Prism.test/contact?x=1", "WWW.Prism.test"},
		{"not a url", ""},
	}
	for _, tt := range tests {
		got, err := ExtractHost(tt.in)
		if err != nil {
			t.Errorf("ExtractHost(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ExtractHost("http://[::1"); err == nil {
		t.Error("expected parse error")
	}
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"home-main_heading", "home-main_heading"},
		{"contact/submit form?", "contact_submit_form"},
		{`a<b>c:"d"|e*f`, "a_b_c_d_e_f"},
		{"...", "output"},
		{"", "output"},
	}
	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := CleanFileName(strings.Repeat("x", 300)); len(got) != 200 {
		t.Errorf("expected length 200, got %d", len(got))
	}
	if got := CleanFileName(strings.Repeat("é", 300)); utf8.RuneCountInString(got) != 200 || !utf8.ValidString(got) {
		t.Errorf("expected 200 whole runes, got %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := TruncateString("a long failure message", 10); got != "a long ..." {
		t.Errorf("got %q", got)
	}
	if got := TruncateString("abcdef", 2); got != "ab" {
		t.Errorf("got %q", got)
	}

	got := TruncateString(`expected "Café" to match`, 17)
	if got != `expected "Café...` {
		t.Errorf("got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncation split a rune: %q", got)
	}
	if got := TruncateString("ééééé", 4); got != "é..." {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Building\n\tCutting-Edge  Software ", "Building Cutting-Edge Software"},
		{"About Prism", "About Prism"},
		{"Café", "Café"},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if !ContainsText("Let's  Connect", "Let's Connect") {
		t.Error("ContainsText should ignore whitespace differences")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOptions(LoggerOptions{Level: WarnLevel, Output: &buf})

	log.Info("hidden")
	log.WithField("scenario", "home/main_heading").Warnf("shown %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown 1") || !strings.Contains(out, "scenario=home/main_heading") {
		t.Errorf("unexpected output: %s", out)
	}

	buf.Reset()
	jsonLog := NewLoggerWithOptions(LoggerOptions{Level: DebugLevel, Format: "json", Output: &buf})
	jsonLog.WithFields(map[string]interface{}{"page": "home"}).Debug("navigated")
	if !strings.Contains(buf.String(), `"page":"home"`) {
		t.Errorf("expected JSON fields, got: %s", buf.String())
	}

	if _, err := ParseLogLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestRateLimiter(t *testing.T) {
	testCtx, testCancel := context.WithCancel(context.Background())
	t.Cleanup(testCancel)

	var nilLimiter *RateLimiter
	if err := nilLimiter.Wait(testCtx); err != nil {
		t.Errorf("nil limiter Wait() = %v", err)
	}

	if NewRateLimiter(0, 1) != nil {
		t.Error("expected nil limiter for zero rate")
	}

	rl := NewRateLimiter(20, 1)
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(testCtx); err != nil {
			t.Fatalf("Wait() = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("3 events at 20/s with burst 1 took %v, want at least 80ms", elapsed)
	}

	ctx, cancel := context.WithCancel(testCtx)
	cancel()
	if err := NewRateLimiter(0.001, 1).Wait(ctx); err == nil {
		t.Error("expected Wait to fail on a cancelled context")
	}
}
