package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"smsguard/internal/middleware"
	"smsguard/internal/models"
	"smsguard/internal/repository"
	"smsguard/internal/service"
)

// MockKeyService is a mock implementation of service.KeyService
type MockKeyService struct {
	mock.Mock
}

func (m *MockKeyService) Generate(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockKeyService) Authenticate(ctx context.Context, presentedKey string) bool {
	args := m.Called(ctx, presentedKey)
	return args.Bool(0)
}

// MockPredictionService is a mock implementation of service.PredictionService
type MockPredictionService struct {
	mock.Mock
}

func (m *MockPredictionService) Predict(ctx context.Context, text string) (models.Label, int64, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(models.Label), args.Get(1).(int64), args.Error(2)
}

func (m *MockPredictionService) SubmitFeedback(ctx context.Context, logID int64, feedback string) error {
	args := m.Called(ctx, logID, feedback)
	return args.Error(0)
}

func (m *MockPredictionService) DashboardStats(ctx context.Context) (*service.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DashboardStats), args.Error(1)
}

func (m *MockPredictionService) History(ctx context.Context) (map[string]models.DailyCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.DailyCount), args.Error(1)
}

func (m *MockPredictionService) ClearLogs(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func setupTestRouter(keys *MockKeyService, predictions *MockPredictionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	r := gin.New()
	authRequired := middleware.APIKeyAuth(keys, logger)

	r.POST("/auth/generate-key", NewKeyHandler(keys, logger).GenerateKey)
	predictHandler := NewPredictHandler(predictions, logger)
	r.POST("/predict", authRequired, predictHandler.Predict)
	r.POST("/feedback/:log_id", predictHandler.SubmitFeedback)
	statsHandler := NewStatsHandler(predictions, logger)
	r.GET("/stats", statsHandler.GetDashboard)
	r.GET("/stats/history", statsHandler.GetHistory)
	r.DELETE("/admin/logs", authRequired, NewAdminHandler(predictions, logger).ClearLogs)
	return r
}

func doJSON(r *gin.Engine, method, path, apiKey string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateKey_Success(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Generate", mock.Anything).Return("sk_live_abc123", nil)
	r := setupTestRouter(keys, new(MockPredictionService))

	w := doJSON(r, http.MethodPost, "/auth/generate-key", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sk_live_abc123", resp["api_key"])
}

func TestGenerateKey_StorageFailure(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Generate", mock.Anything).Return("", errors.New("storage failure"))
	r := setupTestRouter(keys, new(MockPredictionService))

	w := doJSON(r, http.MethodPost, "/auth/generate-key", "", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPredict_MissingKeyCreatesNoLog(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Authenticate", mock.Anything, "").Return(false)
	predictions := new(MockPredictionService)
	r := setupTestRouter(keys, predictions)

	w := doJSON(r, http.MethodPost, "/predict", "", gin.H{"text": "hello"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	predictions.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
}

func TestPredict_InvalidKey(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Authenticate", mock.Anything, "sk_live_bogus").Return(false)
	r := setupTestRouter(keys, new(MockPredictionService))

	w := doJSON(r, http.MethodPost, "/predict", "sk_live_bogus", gin.H{"text": "hello"})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPredict_Success(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Authenticate", mock.Anything, "sk_live_good").Return(true)
	predictions := new(MockPredictionService)
	predictions.On("Predict", mock.Anything, "WINNER! Free prize, call now!").Return(models.LabelSpam, int64(1), nil)
	r := setupTestRouter(keys, predictions)

	w := doJSON(r, http.MethodPost, "/predict", "sk_live_good", gin.H{"text": "WINNER! Free prize, call now!"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Prediction string `json:"prediction"`
		LogID      int64  `json:"log_id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Spam", resp.Prediction)
	assert.Equal(t, int64(1), resp.LogID)
}

func TestPredict_ModelNotReady(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Authenticate", mock.Anything, "sk_live_good").Return(true)
	predictions := new(MockPredictionService)
	predictions.On("Predict", mock.Anything, "hello").Return(models.Label(""), int64(0), service.ErrModelNotReady)
	r := setupTestRouter(keys, predictions)

	w := doJSON(r, http.MethodPost, "/predict", "sk_live_good", gin.H{"text": "hello"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPredict_OversizeText(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Authenticate", mock.Anything, "sk_live_good").Return(true)
	predictions := new(MockPredictionService)
	predictions.On("Predict", mock.Anything, "way too long").Return(models.Label(""), int64(0), service.ErrTextTooLong)
	r := setupTestRouter(keys, predictions)

	w := doJSON(r, http.MethodPost, "/predict", "sk_live_good", gin.H{"text": "way too long"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredict_InternalErrorSurfacesDetail(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Authenticate", mock.Anything, "sk_live_good").Return(true)
	predictions := new(MockPredictionService)
	predictions.On("Predict", mock.Anything, "hello").Return(models.Label(""), int64(0), errors.New("classification failed: boom"))
	r := setupTestRouter(keys, predictions)

	w := doJSON(r, http.MethodPost, "/predict", "sk_live_good", gin.H{"text": "hello"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["detail"], "boom")
}

func TestSubmitFeedback_Success(t *testing.T) {
	predictions := new(MockPredictionService)
	predictions.On("SubmitFeedback", mock.Anything, int64(1), "incorrect").Return(nil)
	r := setupTestRouter(new(MockKeyService), predictions)

	w := doJSON(r, http.MethodPost, "/feedback/1", "", gin.H{"feedback": "incorrect"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
}

// Unknown log ids come back as a 500, matching the surface this service has
// always exposed.
func TestSubmitFeedback_UnknownLogIsInternalError(t *testing.T) {
	predictions := new(MockPredictionService)
	predictions.On("SubmitFeedback", mock.Anything, int64(42), "correct").Return(repository.ErrLogNotFound)
	r := setupTestRouter(new(MockKeyService), predictions)

	w := doJSON(r, http.MethodPost, "/feedback/42", "", gin.H{"feedback": "correct"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSubmitFeedback_BadID(t *testing.T) {
	r := setupTestRouter(new(MockKeyService), new(MockPredictionService))

	w := doJSON(r, http.MethodPost, "/feedback/notanumber", "", gin.H{"feedback": "correct"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDashboard_Shape(t *testing.T) {
	predictions := new(MockPredictionService)
	predictions.On("DashboardStats", mock.Anything).Return(&service.DashboardStats{
		TotalRequests: 2,
		Distribution:  map[models.Label]int64{models.LabelSpam: 1, models.LabelHam: 1},
		FeedbackStats: map[string]int64{"incorrect": 1},
		RecentLogs:    []models.PredictionLog{{ID: 2}, {ID: 1}},
	}, nil)
	r := setupTestRouter(new(MockKeyService), predictions)

	w := doJSON(r, http.MethodGet, "/stats", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, field := range []string{"total_requests", "distribution", "feedback_stats", "recent_logs"} {
		assert.Contains(t, resp, field)
	}
}

func TestGetHistory(t *testing.T) {
	predictions := new(MockPredictionService)
	predictions.On("History", mock.Anything).Return(map[string]models.DailyCount{
		"2026-08-29": {Spam: 3, Ham: 1},
	}, nil)
	r := setupTestRouter(new(MockKeyService), predictions)

	w := doJSON(r, http.MethodGet, "/stats/history", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]models.DailyCount
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.DailyCount{Spam: 3, Ham: 1}, resp["2026-08-29"])
}

func TestClearLogs_RequiresKey(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Authenticate", mock.Anything, "").Return(false)
	predictions := new(MockPredictionService)
	r := setupTestRouter(keys, predictions)

	w := doJSON(r, http.MethodDelete, "/admin/logs", "", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	predictions.AssertNotCalled(t, "ClearLogs", mock.Anything)
}

func TestClearLogs_Success(t *testing.T) {
	keys := new(MockKeyService)
	keys.On("Authenticate", mock.Anything, "sk_live_good").Return(true)
	predictions := new(MockPredictionService)
	predictions.On("ClearLogs", mock.Anything).Return(nil)
	r := setupTestRouter(keys, predictions)

	w := doJSON(r, http.MethodDelete, "/admin/logs", "sk_live_good", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cleared", resp["status"])
}
