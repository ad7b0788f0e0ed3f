package repository

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"smsguard/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// KeyPrefix marks every credential this service issues.
const KeyPrefix = "sk_live_"

const keyRandomBytes = 16

type APIKeyRepository interface {
	Create(ctx context.Context) (*models.APIKey, error)
	IsValid(ctx context.Context, key string) (bool, error)
}

type apiKeyRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAPIKeyRepository(db *sqlx.DB, logger *zap.Logger) APIKeyRepository {
	return &apiKeyRepository{db: db, logger: logger}
}

// newKeyToken builds an opaque URL-safe token: sk_live_ plus 22 characters
// from 16 bytes of crypto/rand.
func newKeyToken() (string, error) {
	randomBytes := make([]byte, keyRandomBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return KeyPrefix + base64.RawURLEncoding.EncodeToString(randomBytes), nil
}

func (r *apiKeyRepository) Create(ctx context.Context) (*models.APIKey, error) {
	token, err := newKeyToken()
	if err != nil {
		return nil, err
	}

	apiKey := &models.APIKey{Key: token}
	query := `INSERT INTO api_keys (key) VALUES ($1) RETURNING id, is_active, created_at`
	err = r.db.QueryRowxContext(ctx, query, token).Scan(&apiKey.ID, &apiKey.IsActive, &apiKey.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert api key: %w", err)
	}

	r.logger.Info("Issued new API key", zap.Int64("key_id", apiKey.ID))
	return apiKey, nil
}

func (r *apiKeyRepository) IsValid(ctx context.Context, key string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM api_keys WHERE key = $1 AND is_active = TRUE)`
	if err := r.db.GetContext(ctx, &exists, query, key); err != nil {
		return false, err
	}
	return exists, nil
}
