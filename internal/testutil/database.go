package testutil

import (
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"rayon/internal/infrastructure/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/rayon_test?parseTime=true&loc=UTC&multiStatements=true&clientFoundRows=true"

// SetupTestDB connects to the integration database named by RAYON_TEST_DSN and
// skips the test when it is not reachable.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("RAYON_TEST_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables brings the schema up to date with the embedded migrations.
func SetupTestTables(t *testing.T, db *sqlx.DB) {
	t.Helper()

	if err := mysql.Migrate(db.DB, mysql.MigrateUp, zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sqlx.DB) {
	t.Helper()

	if db == nil {
		return
	}

	tables := []string{"order_items", "orders", "personal_access_tokens", "products", "store_settings", "users"}
	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	_ = db.Close()
}
