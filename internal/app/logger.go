package app

import (
	"strings"

	"github.com/charlesng35/flaskr/pkg/logger"
)

const serviceName = "flaskr"

// ConfigureLogging installs the process logger. Blank values mean info level
// and JSON output.
func ConfigureLogging(level, format string) error {
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	return logger.Configure(logger.Options{
		Level:   level,
		Format:  format,
		Service: serviceName,
	})
}
