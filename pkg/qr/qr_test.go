package qr

import (
	"net/url"
	"strings"
	"testing"

	"github.com/hangrmap/hangrmap-backend/pkg/config"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	gen, err := NewGenerator(config.QRConfig{
		ImageEndpoint: "https://api.qrserver.com/v1/create-qr-code/",
		ScanBaseURL:   "https://hangrmap.app/s/",
	})
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return gen
}

func TestNewGenerator_RequiresEndpoints(t *testing.T) {
	if _, err := NewGenerator(config.QRConfig{ScanBaseURL: "https://hangrmap.app/s"}); err == nil {
		t.Fatalf("expected error for missing image endpoint")
	}
	if _, err := NewGenerator(config.QRConfig{ImageEndpoint: "https://api.qrserver.com/v1/create-qr-code/"}); err == nil {
		t.Fatalf("expected error for missing scan base url")
	}
}

func TestNewToken_URLSafe(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		token, err := NewToken()
		if err != nil {
			t.Fatalf("new token: %v", err)
		}
		if token == "" {
			t.Fatalf("expected non-empty token")
		}
		if strings.ContainsAny(token, "+/=") {
			t.Fatalf("expected url-safe token, got %q", token)
		}
		if seen[token] {
			t.Fatalf("token %q repeated", token)
		}
		seen[token] = true
	}
}

func TestScanURL(t *testing.T) {
	gen := testGenerator(t)
	if got := gen.ScanURL("abc123"); got != "https://hangrmap.app/s/abc123" {
		t.Fatalf("unexpected scan url %q", got)
	}
}

func TestImageURL_EmbedsScanURL(t *testing.T) {
	gen := testGenerator(t)
	raw := gen.ImageURL("abc123")

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse image url: %v", err)
	}
	if !strings.HasPrefix(raw, "https://api.qrserver.com/v1/create-qr-code?") {
		t.Fatalf("unexpected image url prefix %q", raw)
	}
	if got := parsed.Query().Get("data"); got != "https://hangrmap.app/s/abc123" {
		t.Fatalf("expected scan url in data param, got %q", got)
	}
	if got := parsed.Query().Get("size"); got != "150x150" {
		t.Fatalf("expected default size, got %q", got)
	}
}

func TestImageURL_CustomSize(t *testing.T) {
	gen, err := NewGenerator(config.QRConfig{
		ImageEndpoint: "https://api.qrserver.com/v1/create-qr-code/",
		ScanBaseURL:   "https://hangrmap.app/s",
		ImageSize:     "300x300",
	})
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	parsed, err := url.Parse(gen.ImageURL("tok"))
	if err != nil {
		t.Fatalf("parse image url: %v", err)
	}
	if got := parsed.Query().Get("size"); got != "300x300" {
		t.Fatalf("expected configured size, got %q", got)
	}
}
