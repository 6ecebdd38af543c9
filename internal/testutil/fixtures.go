package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func InsertUser(t *testing.T, db *sqlx.DB, role string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(`INSERT INTO users (id, name, email, role) VALUES (?, ?, ?, ?)`,
		id.String(), "Test "+role, id.String()+"@example.com", role)
	require.NoError(t, err)
	return id
}

// InsertProduct creates an active catalog product. A nil stock means the
// product is not stock-tracked.
func InsertProduct(t *testing.T, db *sqlx.DB, name, price string, stock *int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(`INSERT INTO products (id, name, brand, price, stock, is_active) VALUES (?, ?, 'Rayon', ?, ?, 1)`,
		id.String(), name, price, stock)
	require.NoError(t, err)
	return id
}

func InsertToken(t *testing.T, db *sqlx.DB, userID uuid.UUID, hashedToken string) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO personal_access_tokens (user_id, name, token) VALUES (?, 'test', ?)`,
		userID.String(), hashedToken)
	require.NoError(t, err)
}

func IntPtr(i int) *int {
	return &i
}
