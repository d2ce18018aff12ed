// Package store writes generated QR code images to disk as flat PNG files.
package store

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

const (
	// DefaultDir is where automatic saves land, relative to the working
	// directory.
	DefaultDir = "qr_codes"

	// FallbackName is used when nothing of the address survives sanitizing.
	FallbackName = "qrcode"

	timestampLayout = "20060102_150405"
)

// Store manages the automatic-save directory.
type Store struct {
	Dir string
	Now func() time.Time
}

// New returns a Store rooted at dir, or DefaultDir when dir is empty.
func New(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{Dir: dir, Now: time.Now}
}

// AutoSave writes img under the store directory, creating it when missing,
// and returns the absolute path of the new file. A file saved earlier in the
// same second for the same domain is overwritten.
func (s *Store) AutoSave(img image.Image, payload string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", s.Dir, err)
	}

	path := filepath.Join(s.Dir, s.FileNameFor(payload))
	if err := SaveFile(path, img); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// FileNameFor is FileName stamped with the store's clock.
func (s *Store) FileNameFor(payload string) string {
	return FileName(payload, s.now())
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// SaveFile writes img as a PNG to path, replacing any existing file.
func SaveFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", path, err)
	}
	return nil
}

// WritePNG encodes img to w as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// FileName returns "<domain>_<YYYYMMDD_HHMMSS>.png" for payload.
func FileName(payload string, t time.Time) string {
	return fmt.Sprintf("%s_%s.png", DomainName(payload), t.Format(timestampLayout))
}

// DomainName extracts the authority of payload (everything between "//" and
// the first '/', '?' or '#') for use in a file name. Every "www." is dropped
// and only letters, digits, '.', '-' and '_' are kept. FallbackName is
// returned when nothing is left.
func DomainName(payload string) string {
	host := strings.ReplaceAll(authority(payload), "www.", "")

	var b strings.Builder
	for _, r := range host {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return FallbackName
	}
	return b.String()
}

// authority returns the raw authority of s without validating it, so
// addresses with bad escapes or spaces still yield their host. User info and
// port are kept. It is empty when s has no "//" after an optional scheme.
func authority(s string) string {
	if i := strings.IndexByte(s, ':'); i > 0 && isScheme(s[:i]) {
		s = s[i+1:]
	}
	if !strings.HasPrefix(s, "//") {
		return ""
	}
	s = s[2:]
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return s
}

func isScheme(s string) bool {
	for i, r := range s {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && ('0' <= r && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
