// Package testhelpers spins up disposable MySQL servers for integration
// tests.
package testhelpers

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	mysqldriver "github.com/go-sql-driver/mysql"
	tc "github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/mmikolaj/gotools/mysql"
)

// MySQLContainer is a running MySQL server plus a ready-made Config
// pointing at it.
type MySQLContainer struct {
	*tcmysql.MySQLContainer
	Config mysql.Config
}

// NewMySQLContainer starts a MySQL container seeded with testdata/seed.sql.
func NewMySQLContainer(ctx context.Context) (*MySQLContainer, error) {
	seedFile, err := TestDataPath("seed.sql")
	if err != nil {
		return nil, err
	}

	ctr, err := tcmysql.Run(
		ctx,
		"mysql:8.4",
		tc.CustomizeRequest(tc.GenericContainerRequest{
			ProviderType: GetContainerProvider(),
		}),
		tcmysql.WithDatabase("testdb"),
		tcmysql.WithUsername("t"),
		tcmysql.WithPassword("t"),
		tcmysql.WithScripts(seedFile),
	)
	if err != nil {
		return nil, err
	}

	connURL, err := ctr.ConnectionString(ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := configFromDSN(connURL)
	if err != nil {
		return nil, err
	}

	return &MySQLContainer{
		MySQLContainer: ctr,
		Config:         cfg,
	}, nil
}

// GetContainerProvider returns the container provider type to use for the
// tests. If we detect podman is available, we use it, otherwise we use
// docker.
func GetContainerProvider() tc.ProviderType {
	if _, err := exec.LookPath("podman"); err == nil {
		fmt.Println("Podman detected. Remember to set TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED=true;")
		return tc.ProviderPodman
	}
	return tc.ProviderDocker
}

// TestDataPath returns the absolute path of a file in the testdata
// directory.
func TestDataPath(filename string) (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to get current file path")
	}

	return filepath.Join(filepath.Dir(currentFile), "testdata", filename), nil
}

// configFromDSN converts the container's connection string back into an
// explicit Config.
func configFromDSN(dsn string) (mysql.Config, error) {
	parsed, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return mysql.Config{}, fmt.Errorf("mysql.ParseDSN: %w", err)
	}

	host, rawPort, err := net.SplitHostPort(parsed.Addr)
	if err != nil {
		return mysql.Config{}, fmt.Errorf("net.SplitHostPort: %w", err)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return mysql.Config{}, fmt.Errorf("strconv.Atoi: %w", err)
	}

	return mysql.Config{
		Host:     host,
		Port:     port,
		User:     parsed.User,
		Password: parsed.Passwd,
		Database: parsed.DBName,
	}, nil
}
