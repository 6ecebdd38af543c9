package auth

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	apperrors "rayon/internal/errors"
)

// MySQLTokenRepository resolves personal access tokens issued by the account
// service. Tokens are stored as the SHA-256 of their secret part; clients send
// them as "<id>|<secret>" or just "<secret>".
type MySQLTokenRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewMySQLTokenRepository(db *sqlx.DB, logger *zap.Logger) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db, logger: logger, now: time.Now}
}

type tokenRow struct {
	TokenID   uint64       `db:"id"`
	UserID    uuid.UUID    `db:"user_id"`
	Role      string       `db:"role"`
	ExpiresAt sql.NullTime `db:"expires_at"`
}

func (r *MySQLTokenRepository) Resolve(ctx context.Context, token string) (*Identity, error) {
	query := `
		SELECT t.id, t.user_id, u.role, t.expires_at
		FROM personal_access_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = ?
	`

	var row tokenRow
	err := r.db.GetContext(ctx, &row, query, HashToken(token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}
	if err != nil {
		return nil, fmt.Errorf("querying access token: %w", err)
	}

	if row.ExpiresAt.Valid && !row.ExpiresAt.Time.After(r.now()) {
		return nil, apperrors.NewUnauthorizedError("token expired")
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE personal_access_tokens SET last_used_at = ? WHERE id = ?`, r.now().UTC(), row.TokenID); err != nil {
		r.logger.Warn("failed to touch access token", zap.Uint64("tokenId", row.TokenID), zap.Error(err))
	}

	return &Identity{UserID: row.UserID, Role: Role(row.Role)}, nil
}

// HashToken returns the stored form of a plain-text token.
func HashToken(token string) string {
	if _, secret, found := strings.Cut(token, "|"); found {
		token = secret
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
