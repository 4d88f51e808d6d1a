package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charlesng35/flaskr/pkg/crypto"
)

const (
	sessionSecretBytes = 48

	defaultUsername = "admin"
	defaultPassword = "admin"
)

// RuntimeReport describes what ApplyRuntimeDefaults changed or noticed.
type RuntimeReport struct {
	// GeneratedSessionSecret is set when auth.session.secret was empty and a
	// random one was filled in. Sessions then end with the process.
	GeneratedSessionSecret bool
	// DefaultCredentials is set when the login pair is still admin/admin.
	DefaultCredentials bool
}

// ApplyRuntimeDefaults fills values that must not be shipped as static
// defaults. Generated values are never reported, only which keys changed.
func ApplyRuntimeDefaults(cfg *Config) (RuntimeReport, error) {
	var report RuntimeReport
	if cfg == nil {
		return report, errors.New("config is nil")
	}

	if strings.TrimSpace(cfg.Auth.Session.Secret) == "" {
		secret, err := crypto.GenerateToken(sessionSecretBytes)
		if err != nil {
			return report, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.Auth.Session.Secret = secret
		report.GeneratedSessionSecret = true
	}

	report.DefaultCredentials = cfg.Auth.Username == defaultUsername && cfg.Auth.Password == defaultPassword
	return report, nil
}
