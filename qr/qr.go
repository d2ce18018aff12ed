// Package qr turns a web address into a QR code image. The encoding itself is
// delegated to go-qrcode; this package only fixes its parameters.
package qr

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	// ModuleSize is the width in pixels of a single QR module.
	ModuleSize = 10
	// Border records the quiet zone width, in modules, that go-qrcode draws
	// around every symbol. It is not passed to the encoder.
	Border = 4
	// Level is the fixed error-correction level.
	Level = qrcode.Low

	// DefaultScheme is prepended to addresses that carry no scheme.
	DefaultScheme = "https://"
)

// ErrEmptyInput is returned when the address is empty after trimming.
var ErrEmptyInput = errors.New("web address is empty")

var knownSchemes = []string{"http://", "https://"}

// Normalize trims raw and prepends DefaultScheme unless it already starts
// with http:// or https://.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmptyInput
	}
	for _, scheme := range knownSchemes {
		if strings.HasPrefix(s, scheme) {
			return s, nil
		}
	}
	return DefaultScheme + s, nil
}

// Encode renders payload as a black-on-white QR code. The symbol version is
// the smallest that fits the payload, so the image is
// (modules+2*Border)*ModuleSize pixels square.
func Encode(payload string) (image.Image, error) {
	q, err := newCode(payload)
	if err != nil {
		return nil, err
	}
	// A negative size makes each module -size pixels wide.
	return q.Image(-ModuleSize), nil
}

// EncodePNG is Encode returning PNG bytes.
func EncodePNG(payload string) ([]byte, error) {
	q, err := newCode(payload)
	if err != nil {
		return nil, err
	}
	png, err := q.PNG(-ModuleSize)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return png, nil
}

func newCode(payload string) (*qrcode.QRCode, error) {
	q, err := qrcode.New(payload, Level)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	q.ForegroundColor = color.Black
	q.BackgroundColor = color.White
	return q, nil
}
