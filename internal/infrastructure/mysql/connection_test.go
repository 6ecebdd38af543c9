package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rayon/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:            "db",
		Port:            3307,
		User:            "rayon",
		Password:        "p@ss",
		Name:            "shop",
		ConnMaxLifetime: time.Minute,
	})

	assert.Contains(t, dsn, "rayon:p@ss@tcp(db:3307)/shop")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "multiStatements=true")
	assert.Contains(t, dsn, "clientFoundRows=true")
}
