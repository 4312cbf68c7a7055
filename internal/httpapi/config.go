package httpapi

import "strings"

const (
	defaultListenAddr    = ":9090"
	defaultAllowedOrigin = "http://localhost:5173"
)

// Config aggregates the façade's runtime settings.
type Config struct {
	ListenAddr     string
	AllowedOrigins []string
}

// Validate fills defaults for unset values. An empty origin list would make
// the CORS middleware reject its own configuration, so it always gets the
// localhost development origin.
func (cfg *Config) Validate() error {
	cfg.ListenAddr = defaultIfEmpty(cfg.ListenAddr, defaultListenAddr)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{defaultAllowedOrigin}
	}
	return nil
}

func defaultIfEmpty(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// ParseAllowedOrigins splits comma-delimited origins into a slice.
func ParseAllowedOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}
