package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/generate-key", RateLimit(3), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/generate-key", nil)
		req.RemoteAddr = "198.51.100.7:1234"
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	for i := 0; i < 3; i++ {
		if statuses[i] != http.StatusOK {
			t.Errorf("request %d status = %d, want 200", i, statuses[i])
		}
	}
	if statuses[3] != http.StatusTooManyRequests {
		t.Errorf("request 4 status = %d, want 429", statuses[3])
	}
}

func TestRateLimit_PerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/generate-key", RateLimit(1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/generate-key", nil)
		req.RemoteAddr = addr
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := send("198.51.100.7:1234"); got != http.StatusOK {
		t.Errorf("first request = %d, want 200", got)
	}
	if got := send("198.51.100.7:1234"); got != http.StatusTooManyRequests {
		t.Errorf("second request from same IP = %d, want 429", got)
	}
	// A different client still has its own budget.
	if got := send("203.0.113.9:1234"); got != http.StatusOK {
		t.Errorf("request from other IP = %d, want 200", got)
	}
}
