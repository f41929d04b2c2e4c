package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimiter_AllowsNormalTraffic(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(10, 5))
	router.GET("/submit", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/submit", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("request %d: expected status %d, got %d", i+1, http.StatusOK, w.Code)
		}
	}
}

func TestRateLimiter_BlocksExcessiveTraffic(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(1, 2))
	router.GET("/submit", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	blocked := false
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/submit", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		router.ServeHTTP(w, req)

		if w.Code == http.StatusTooManyRequests {
			blocked = true
			break
		}
	}

	if !blocked {
		t.Error("expected rate limiter to block excessive traffic")
	}
}

func TestRateLimiter_PerClientIsolation(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(1, 2))
	router.GET("/submit", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Exhaust the first client's budget.
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/submit", nil)
		req.RemoteAddr = "10.0.0.3:1234"
		router.ServeHTTP(w, req)
	}

	// A different client should still get through.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/submit", nil)
	req.RemoteAddr = "10.0.0.4:1234"
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected fresh client to pass, got status %d", w.Code)
	}
}
