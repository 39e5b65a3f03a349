package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rdfkit/rdfkit"
)

// DefaultPort is used when the configuration does not name one.
const DefaultPort = 5432

// Config describes the backend connection.
type Config struct {
	User     string
	Password string
	DBName   string
	Host     string
	SSLMode  string
	Port     int
}

// ParseConfigMap builds a Config from a key=value configuration mapping.
// The keys "user" and "dbname" are required; "password" defaults to empty,
// "port" to 5432. A port that does not parse as an integer is a fatal
// configuration error.
func ParseConfigMap(m map[string]string) (*Config, error) {
	const op = `store/postgres/ParseConfigMap`
	for _, k := range [...]string{"user", "dbname"} {
		if _, ok := m[k]; !ok {
			return nil, &rdfkit.Error{
				Op:      op,
				Kind:    rdfkit.ErrInvalid,
				Message: fmt.Sprintf("missing required configuration key %q", k),
			}
		}
	}
	cfg := Config{
		User:     m["user"],
		Password: m["password"],
		DBName:   m["dbname"],
		Host:     m["host"],
		SSLMode:  m["sslmode"],
		Port:     DefaultPort,
	}
	if p, ok := m["port"]; ok {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, &rdfkit.Error{
				Op:      op,
				Kind:    rdfkit.ErrInvalid,
				Message: "port must be a valid integer",
				Inner:   err,
			}
		}
		cfg.Port = n
	}
	return &cfg, nil
}

// DSN renders the Config as a key=value connection string understood by
// pgx. Optional keys are omitted when unset.
func (c *Config) DSN() string {
	var b strings.Builder
	fmt.Fprintf(&b, "user=%s dbname=%s", c.User, c.DBName)
	if c.Password != "" {
		fmt.Fprintf(&b, " password=%s", c.Password)
	}
	if c.Host != "" {
		fmt.Fprintf(&b, " host=%s", c.Host)
	}
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	fmt.Fprintf(&b, " port=%d", port)
	if c.SSLMode != "" {
		fmt.Fprintf(&b, " sslmode=%s", c.SSLMode)
	}
	return b.String()
}
