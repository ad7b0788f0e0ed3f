package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"smsguard/internal/models"
	"smsguard/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrEmptyText     = errors.New("text must not be empty")
	ErrTextTooLong   = errors.New("text exceeds the maximum allowed length")
	ErrModelNotReady = errors.New("model not loaded")
)

// Classifier is the external model capability converting text to a label.
type Classifier interface {
	Ready(ctx context.Context) bool
	Classify(ctx context.Context, text string) (models.Label, error)
}

// ResultCache caches classification outcomes for previously seen texts.
type ResultCache interface {
	Get(ctx context.Context, text string) (models.Label, bool)
	Set(ctx context.Context, text string, label models.Label)
}

// Notifier receives operational events worth alerting on.
type Notifier interface {
	FeedbackReceived(logID int64, feedback string)
	LogsCleared()
}

// PredictionService orchestrates classification, logging, feedback and the
// dashboard aggregates.
type PredictionService interface {
	Predict(ctx context.Context, text string) (models.Label, int64, error)
	SubmitFeedback(ctx context.Context, logID int64, feedback string) error
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	History(ctx context.Context) (map[string]models.DailyCount, error)
	ClearLogs(ctx context.Context) error
}

// DashboardStats merges the aggregate counters with the most recent logs.
type DashboardStats struct {
	TotalRequests int64                  `json:"total_requests"`
	Distribution  map[models.Label]int64 `json:"distribution"`
	FeedbackStats map[string]int64       `json:"feedback_stats"`
	RecentLogs    []models.PredictionLog `json:"recent_logs"`
}

const (
	recentLogsLimit   = 5
	historyWindowDays = 7
)

type predictionService struct {
	logRepo      repository.PredictionLogRepository
	classifier   Classifier
	cache        ResultCache // optional
	notifier     Notifier    // optional
	maxTextChars int
	logger       *zap.Logger
}

func NewPredictionService(logRepo repository.PredictionLogRepository, classifier Classifier, cache ResultCache, notifier Notifier, maxTextChars int, logger *zap.Logger) PredictionService {
	return &predictionService{
		logRepo:      logRepo,
		classifier:   classifier,
		cache:        cache,
		notifier:     notifier,
		maxTextChars: maxTextChars,
		logger:       logger,
	}
}

// Predict classifies the text and records the outcome. A failed log write
// fails the whole request; the caller never sees an unlogged prediction.
func (s *predictionService) Predict(ctx context.Context, text string) (models.Label, int64, error) {
	if text == "" {
		return "", 0, ErrEmptyText
	}
	if utf8.RuneCountInString(text) > s.maxTextChars {
		return "", 0, ErrTextTooLong
	}

	if !s.classifier.Ready(ctx) {
		return "", 0, ErrModelNotReady
	}

	label, cached := s.cachedLabel(ctx, text)
	if !cached {
		var err error
		label, err = s.classifier.Classify(ctx, text)
		if err != nil {
			s.logger.Error("Classification failed", zap.Error(err))
			return "", 0, fmt.Errorf("classification failed: %w", err)
		}
		if s.cache != nil {
			s.cache.Set(ctx, text, label)
		}
	}

	// Every predict call is logged, cache hit or not, so total_requests
	// keeps counting requests rather than distinct texts.
	logID, err := s.logRepo.Insert(ctx, text, label)
	if err != nil {
		s.logger.Error("Failed to log prediction", zap.Error(err))
		return "", 0, fmt.Errorf("failed to log prediction: %w", err)
	}

	return label, logID, nil
}

func (s *predictionService) cachedLabel(ctx context.Context, text string) (models.Label, bool) {
	if s.cache == nil {
		return "", false
	}
	return s.cache.Get(ctx, text)
}

// SubmitFeedback overwrites the feedback on an existing log. Last write wins.
func (s *predictionService) SubmitFeedback(ctx context.Context, logID int64, feedback string) error {
	if err := s.logRepo.UpdateFeedback(ctx, logID, feedback); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.FeedbackReceived(logID, feedback)
	}
	return nil
}

func (s *predictionService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats, err := s.logRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.logRepo.GetRecentLogs(ctx, recentLogsLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalRequests: stats.TotalRequests,
		Distribution:  stats.Distribution,
		FeedbackStats: stats.FeedbackStats,
		RecentLogs:    recent,
	}, nil
}

func (s *predictionService) History(ctx context.Context) (map[string]models.DailyCount, error) {
	return s.logRepo.GetDailyStats(ctx, historyWindowDays)
}

// ClearLogs wipes all prediction logs. Irreversible; API keys are unaffected.
func (s *predictionService) ClearLogs(ctx context.Context) error {
	if err := s.logRepo.ClearAll(ctx); err != nil {
		return err
	}
	s.logger.Info("All prediction logs cleared")
	if s.notifier != nil {
		s.notifier.LogsCleared()
	}
	return nil
}
