package store

import (
	"fmt"
	"net/url"

	"github.com/hjmartin/autobidder/internal/config"
)

// ConnString assembles a postgres:// URL for the trader database.
// Credentials go through url.Userinfo so passwords with reserved
// characters survive the round trip.
func ConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     cfg.Name,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}
