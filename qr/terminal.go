package qr

import (
	"io"

	"github.com/mdp/qrterminal/v3"
)

// WriteTerminal draws payload to w using half-block characters, two QR rows
// per text line.
func WriteTerminal(w io.Writer, payload string) {
	qrterminal.GenerateHalfBlock(payload, qrterminal.L, w)
}
