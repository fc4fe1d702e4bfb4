package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"muawin-server/internal/config"
	"muawin-server/internal/models"
	"muawin-server/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "test-secret",
		JWTRefreshSecret:          "test-refresh",
		JWTExpirationMinutes:      5,
		JWTRefreshExpirationHours: 1,
	}
}

func newAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		id, _ := GetDoctorIDFromContext(c)
		role, _ := GetDoctorRoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	router.GET("/admin", AuthMiddleware(cfg), RoleAuthMiddleware(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	router := newAuthRouter(cfg)

	doctor := &models.Doctor{NumericModel: models.NumericModel{ID: 3}, Role: models.RoleDoctor}
	access, refresh, err := utils.GenerateTokens(doctor, cfg)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "missing header", path: "/me", header: "", want: http.StatusUnauthorized},
		{name: "bad scheme", path: "/me", header: "Token " + access, want: http.StatusUnauthorized},
		{name: "refresh token rejected", path: "/me", header: "Bearer " + refresh, want: http.StatusUnauthorized},
		{name: "valid", path: "/me", header: "Bearer " + access, want: http.StatusOK},
		{name: "doctor on admin route", path: "/admin", header: "Bearer " + access, want: http.StatusForbidden},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", c.path, nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			router.ServeHTTP(w, req)
			if w.Code != c.want {
				t.Fatalf("expected %d, got %d: %s", c.want, w.Code, w.Body.String())
			}
		})
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"id":3`) || !strings.Contains(w.Body.String(), `"role":"doctor"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAdminPassesRoleGate(t *testing.T) {
	cfg := testConfig()
	router := newAuthRouter(cfg)
	admin := &models.Doctor{NumericModel: models.NumericModel{ID: 1}, Role: models.RoleAdmin}
	access, _, err := utils.GenerateTokens(admin, cfg)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

// Ensure LimitBodySize allows small payloads and blocks large ones.
func TestLimitBodySize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LimitBodySize(10))
	router.POST("/echo", func(c *gin.Context) {
		_, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	t.Run("within limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/echo", strings.NewReader("12345"))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/echo", strings.NewReader("01234567890"))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", w.Code)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != zap.InfoLevel || entries[1].Level != zap.WarnLevel {
		t.Fatalf("unexpected levels %v %v", entries[0].Level, entries[1].Level)
	}
	if entries[1].ContextMap()["path"] != "/missing" {
		t.Fatalf("unexpected fields %v", entries[1].ContextMap())
	}
}
