// Package security keeps credentials out of CLI and log output.
package security

import (
	"io"
	"strings"
	"sync"

	"github.com/fleetscope/fleetscope/internal/errors"
)

// Masker redacts registered secrets and known credential patterns from
// strings. The graph store password comes from configuration, so it is
// a literal that pattern matching alone cannot catch.
type Masker struct {
	mu      sync.RWMutex
	secrets []string
}

// globalMasker is the singleton used by the CLI.
var globalMasker = &Masker{}

// RegisterSecret adds a literal secret to the global masker. Short
// values are ignored so common words never get blanked out.
func RegisterSecret(secret string) {
	globalMasker.RegisterSecret(secret)
}

// Mask redacts registered secrets and credential patterns from s.
func Mask(s string) string {
	return globalMasker.Mask(s)
}

// NewMaskedWriter wraps w so everything written through it is masked
// by the global masker.
func NewMaskedWriter(w io.Writer) *MaskedWriter {
	return &MaskedWriter{w: w, masker: globalMasker}
}

// NewMasker creates an independent Masker.
func NewMasker() *Masker {
	return &Masker{}
}

// RegisterSecret adds a literal secret to this masker.
func (m *Masker) RegisterSecret(secret string) {
	// Masking short strings would mangle ordinary output
	if len(secret) < 4 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets = append(m.secrets, secret)
}

// Mask redacts registered secrets and credential patterns from s.
func (m *Masker) Mask(s string) string {
	m.mu.RLock()
	secrets := m.secrets
	m.mu.RUnlock()

	for _, secret := range secrets {
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
	}
	return errors.RedactSensitive(s)
}

// MaskedWriter wraps an io.Writer and masks everything written to it.
type MaskedWriter struct {
	w      io.Writer
	masker *Masker
}

// Write implements io.Writer. It reports the original length so the
// caller's accounting is not disturbed by redaction.
func (mw *MaskedWriter) Write(p []byte) (n int, err error) {
	masked := []byte(mw.masker.Mask(string(p)))
	if _, err = mw.w.Write(masked); err != nil {
		return 0, err
	}
	return len(p), nil
}
