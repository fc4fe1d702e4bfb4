package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"muawin-server/internal/config"
	"muawin-server/internal/models"
)

func TestTokensRoundTrip(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:                 "access",
		JWTRefreshSecret:          "refresh",
		JWTExpirationMinutes:      5,
		JWTRefreshExpirationHours: 1,
	}
	doctor := &models.Doctor{NumericModel: models.NumericModel{ID: 42}, Role: models.RoleDoctor}

	access, refresh, err := GenerateTokens(doctor, cfg)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ValidateToken(access, cfg.JWTSecret)
	if err != nil {
		t.Fatal(err)
	}
	if claims.DoctorID != 42 || claims.Role != models.RoleDoctor || claims.Subject != "42" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := ValidateToken(refresh, cfg.JWTSecret); err == nil {
		t.Fatal("refresh token accepted with the access secret")
	}
}

type loginBody struct {
	Username string `json:"username" binding:"required"`
	Age      int    `json:"age" binding:"gte=0,lte=150"`
}

func TestBindAndValidateReportsJSONNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		body string
		ok   bool
		want string
	}{
		{`{"username":"admin","age":30}`, true, ""},
		{`{"age":30}`, false, "username is required"},
		{`{"username":"admin","age":200}`, false, "age must satisfy lte=150"},
		{`{not json`, false, "Invalid request payload"},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(c.body))
		ctx.Request.Header.Set("Content-Type", "application/json")

		var body loginBody
		if got := BindAndValidate(ctx, &body); got != c.ok {
			t.Fatalf("%s: ok = %v", c.body, got)
		}
		if !c.ok && (w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), c.want)) {
			t.Fatalf("%s: %d %s", c.body, w.Code, w.Body.String())
		}
	}
}
