package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smsguard/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrLogNotFound is returned when a referenced prediction log does not exist.
var ErrLogNotFound = errors.New("prediction log not found")

type PredictionLogRepository interface {
	Insert(ctx context.Context, text string, prediction models.Label) (int64, error)
	UpdateFeedback(ctx context.Context, id int64, feedback string) error
	GetStats(ctx context.Context) (*models.Stats, error)
	GetRecentLogs(ctx context.Context, limit int) ([]models.PredictionLog, error)
	GetDailyStats(ctx context.Context, days int) (map[string]models.DailyCount, error)
	ClearAll(ctx context.Context) error
}

type predictionLogRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPredictionLogRepository(db *sqlx.DB, logger *zap.Logger) PredictionLogRepository {
	return &predictionLogRepository{db: db, logger: logger}
}

func (r *predictionLogRepository) Insert(ctx context.Context, text string, prediction models.Label) (int64, error) {
	var id int64
	query := `INSERT INTO prediction_logs (text, prediction) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, text, prediction).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert prediction log: %w", err)
	}
	return id, nil
}

func (r *predictionLogRepository) UpdateFeedback(ctx context.Context, id int64, feedback string) error {
	query := `UPDATE prediction_logs SET user_feedback = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, feedback, id)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrLogNotFound
	}
	return nil
}

func (r *predictionLogRepository) GetStats(ctx context.Context) (*models.Stats, error) {
	// A single read transaction so the three counts describe one snapshot.
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stats := &models.Stats{
		Distribution:  make(map[models.Label]int64),
		FeedbackStats: make(map[string]int64),
	}

	if err := tx.GetContext(ctx, &stats.TotalRequests, `SELECT COUNT(*) FROM prediction_logs`); err != nil {
		return nil, err
	}

	distRows, err := tx.QueryxContext(ctx, `SELECT prediction, COUNT(*) FROM prediction_logs GROUP BY prediction`)
	if err != nil {
		return nil, err
	}
	defer distRows.Close()
	for distRows.Next() {
		var label models.Label
		var count int64
		if err := distRows.Scan(&label, &count); err != nil {
			return nil, err
		}
		stats.Distribution[label] = count
	}
	if err := distRows.Err(); err != nil {
		return nil, err
	}

	fbRows, err := tx.QueryxContext(ctx, `SELECT user_feedback, COUNT(*) FROM prediction_logs WHERE user_feedback IS NOT NULL GROUP BY user_feedback`)
	if err != nil {
		return nil, err
	}
	defer fbRows.Close()
	for fbRows.Next() {
		var feedback string
		var count int64
		if err := fbRows.Scan(&feedback, &count); err != nil {
			return nil, err
		}
		stats.FeedbackStats[feedback] = count
	}
	if err := fbRows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *predictionLogRepository) GetRecentLogs(ctx context.Context, limit int) ([]models.PredictionLog, error) {
	logs := []models.PredictionLog{}
	query := `SELECT id, text, prediction, timestamp, user_feedback FROM prediction_logs ORDER BY id DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *predictionLogRepository) GetDailyStats(ctx context.Context, days int) (map[string]models.DailyCount, error) {
	query := `
		SELECT
			TO_CHAR(timestamp::date, 'YYYY-MM-DD') AS day,
			prediction,
			COUNT(*) AS count
		FROM prediction_logs
		WHERE timestamp >= CURRENT_DATE - $1 * INTERVAL '1 day'
		GROUP BY day, prediction
		ORDER BY day ASC
	`

	rows, err := r.db.QueryxContext(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Dates with no logs at all stay absent; a date with any logs reports both labels.
	stats := make(map[string]models.DailyCount)
	for rows.Next() {
		var day string
		var prediction models.Label
		var count int64
		if err := rows.Scan(&day, &prediction, &count); err != nil {
			return nil, err
		}

		entry := stats[day]
		switch prediction {
		case models.LabelSpam:
			entry.Spam = count
		case models.LabelHam:
			entry.Ham = count
		default:
			r.logger.Warn("Unexpected prediction label in daily stats", zap.String("label", string(prediction)))
		}
		stats[day] = entry
	}

	return stats, rows.Err()
}

func (r *predictionLogRepository) ClearAll(ctx context.Context) error {
	// RESTART IDENTITY resets the sequence, so the next log gets id 1 again.
	_, err := r.db.ExecContext(ctx, `TRUNCATE prediction_logs RESTART IDENTITY`)
	if err != nil {
		return fmt.Errorf("failed to clear prediction logs: %w", err)
	}
	return nil
}
