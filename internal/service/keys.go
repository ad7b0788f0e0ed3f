package service

import (
	"context"

	"smsguard/internal/repository"

	"go.uber.org/zap"
)

// KeyService issues API keys and decides access for presented credentials.
type KeyService interface {
	Generate(ctx context.Context) (string, error)
	Authenticate(ctx context.Context, presentedKey string) bool
}

type keyService struct {
	repo   repository.APIKeyRepository
	logger *zap.Logger
}

func NewKeyService(repo repository.APIKeyRepository, logger *zap.Logger) KeyService {
	return &keyService{repo: repo, logger: logger}
}

// Generate creates a new credential and returns the raw key. The key is never
// retrievable again; callers must store it themselves.
func (s *keyService) Generate(ctx context.Context) (string, error) {
	apiKey, err := s.repo.Create(ctx)
	if err != nil {
		s.logger.Error("Failed to create API key", zap.Error(err))
		return "", err
	}
	return apiKey.Key, nil
}

// Authenticate returns false when no key was presented, otherwise checks the
// stored record. Lookup failures deny access rather than propagate.
func (s *keyService) Authenticate(ctx context.Context, presentedKey string) bool {
	if presentedKey == "" {
		return false
	}

	valid, err := s.repo.IsValid(ctx, presentedKey)
	if err != nil {
		s.logger.Error("Failed to validate API key", zap.Error(err))
		return false
	}
	return valid
}
