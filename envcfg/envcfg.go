// Package envcfg sources connection settings from the process environment.
// It is a collaborator of the mysql package, not part of it: the connector
// only ever sees an explicit Config.
package envcfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mmikolaj/gotools/mysql"
)

// Load reads <prefix>_HOST, _PORT, _USER, _PASSWORD, _DATABASE and _TIMEOUT
// into a Config. The user falls back to "root" when unset; the port to 3306.
// Variable names are a choice of the embedding application, hence the
// prefix.
func Load(prefix string) (mysql.Config, error) {
	cfg := mysql.Config{
		Host:     os.Getenv(prefix + "_HOST"),
		User:     getenvDefault(prefix+"_USER", "root"),
		Password: os.Getenv(prefix + "_PASSWORD"),
		Database: os.Getenv(prefix + "_DATABASE"),
	}

	if raw := os.Getenv(prefix + "_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return mysql.Config{}, fmt.Errorf("parse %s_PORT: %w", prefix, err)
		}
		cfg.Port = port
	}

	if raw := os.Getenv(prefix + "_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return mysql.Config{}, fmt.Errorf("parse %s_TIMEOUT: %w", prefix, err)
		}
		cfg.DialTimeout = timeout
	}

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
