package app

import (
	"strings"

	"github.com/charlesng35/flaskr/internal/database"
)

// ConnectionConfig resolves the configured driver into the parameters
// database.Open expects. Only the block matching the driver is read.
func (c DatabaseConfig) ConnectionConfig() database.Config {
	conn := database.Config{
		Driver: database.NormaliseDriver(c.Driver),
		Path:   strings.TrimSpace(c.Path),
		DSN:    strings.TrimSpace(c.DSN),
	}

	var server DBAuthConfig
	switch conn.Driver {
	case database.DriverPostgres:
		server = c.Postgres
	case database.DriverMySQL:
		server = c.MySQL
	default:
		return conn
	}

	conn.Host = strings.TrimSpace(server.Host)
	conn.Port = server.Port
	conn.Name = strings.TrimSpace(server.Database)
	conn.User = strings.TrimSpace(server.Username)
	conn.Password = server.Password
	conn.Options = server.Options
	return conn
}
