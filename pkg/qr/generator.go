package qr

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/hangrmap/hangrmap-backend/pkg/config"
)

const tokenBytes = 9

// Generator builds scan tokens and the QR image URLs embedded on printed
// door hangers.
type Generator struct {
	imageEndpoint string
	imageSize     string
	scanBaseURL   string
}

// NewGenerator constructs a Generator from config, falling back to the
// documented provider defaults.
func NewGenerator(cfg config.QRConfig) (*Generator, error) {
	endpoint := strings.TrimSpace(cfg.ImageEndpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("qr image endpoint is required")
	}
	scanBase := strings.TrimSpace(cfg.ScanBaseURL)
	if scanBase == "" {
		return nil, fmt.Errorf("qr scan base url is required")
	}
	size := strings.TrimSpace(cfg.ImageSize)
	if size == "" {
		size = "150x150"
	}
	return &Generator{
		imageEndpoint: endpoint,
		imageSize:     size,
		scanBaseURL:   strings.TrimRight(scanBase, "/"),
	}, nil
}

// NewToken returns a URL-safe random scan token.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating qr token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ScanURL returns the tracking URL a printed QR code resolves to.
func (g *Generator) ScanURL(token string) string {
	return fmt.Sprintf("%s/%s", g.scanBaseURL, url.PathEscape(token))
}

// ImageURL returns the provider URL that renders the QR image for a token.
func (g *Generator) ImageURL(token string) string {
	q := url.Values{}
	q.Set("size", g.imageSize)
	q.Set("data", g.ScanURL(token))
	return fmt.Sprintf("%s?%s", strings.TrimRight(g.imageEndpoint, "/"), q.Encode())
}
