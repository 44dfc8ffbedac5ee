package mysql

import (
	"errors"
	"net"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// DefaultPort is used when Config.Port is left zero.
const DefaultPort = 3306

// Config carries everything needed to open a session. Build it by hand or
// source it from the environment with the envcfg package - the connector
// itself never reads environment variables.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string

	// DialTimeout bounds the initial connection attempt. Read and write
	// timeouts apply per network operation, not per statement.
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Params are passed to the driver DSN verbatim, e.g. "tls": "skip-verify".
	Params map[string]string
}

var (
	errNoHost     = errors.New("config: host is required")
	errNoUser     = errors.New("config: user is required")
	errNoDatabase = errors.New("config: database is required")
)

// Validate checks required fields. It runs before any network call, so a
// malformed config never results in a dial.
func (c Config) Validate() error {
	if c.Host == "" {
		return errNoHost
	}
	if c.User == "" {
		return errNoUser
	}
	if c.Database == "" {
		return errNoDatabase
	}
	return nil
}

// DSN renders the driver connection string.
func (c Config) DSN() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}

	dc := mysqldriver.NewConfig()
	dc.Net = "tcp"
	dc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(port))
	dc.User = c.User
	dc.Passwd = c.Password
	dc.DBName = c.Database
	dc.Timeout = c.DialTimeout
	dc.ReadTimeout = c.ReadTimeout
	dc.WriteTimeout = c.WriteTimeout

	if len(c.Params) > 0 {
		dc.Params = make(map[string]string, len(c.Params))
		for k, v := range c.Params {
			dc.Params[k] = v
		}
	}

	return dc.FormatDSN()
}
