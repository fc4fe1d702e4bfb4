package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"muawin-server/internal/llm"
)

func TestMergeSymptoms(t *testing.T) {
	got := mergeSymptoms([]string{"Fever", " ", "Cough"}, []string{"fever", " Joint pain "})
	if strings.Join(got, "|") != "Fever|Cough|Joint pain" {
		t.Fatalf("got %v", got)
	}
	if got := mergeSymptoms(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestParseConsultationDate(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
		year    int
	}{
		{"2024-03-01T10:30:00Z", false, 2024},
		{"2024-03-01T10:30:00.123456", false, 2024},
		{"2023-12-31 23:59:59", false, 2023},
		{"2022-01-02", false, 2022},
		{"last tuesday", true, 0},
	}
	for _, c := range cases {
		got, err := parseConsultationDate(c.in)
		if (err != nil) != c.wantErr {
			t.Fatalf("parseConsultationDate(%q) err = %v", c.in, err)
		}
		if !c.wantErr && got.Year() != c.year {
			t.Fatalf("parseConsultationDate(%q) = %v", c.in, got)
		}
	}
	if got, err := parseConsultationDate(""); err != nil || got.IsZero() {
		t.Fatalf("empty date should default to now, got %v %v", got, err)
	}
}

func TestRespondLLMError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		want int
	}{
		{llm.ErrNotConfigured, http.StatusServiceUnavailable},
		{&llm.VendorError{Err: errors.New("timeout")}, http.StatusBadGateway},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		respondLLMError(ctx, zap.NewNop(), c.err)
		if w.Code != c.want {
			t.Fatalf("%v: status %d, want %d", c.err, w.Code, c.want)
		}
	}
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadyReportsFailingDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(map[string]HealthChecker{
		"db":    pingFunc(func(context.Context) error { return nil }),
		"redis": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
		"none":  nil,
	})

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	h.Ready(ctx)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`"status":"degraded"`, `"db":"ok"`, `connection refused`} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %s: %s", want, body)
		}
	}
	if strings.Contains(body, `"none"`) {
		t.Fatalf("nil checker was pinged: %s", body)
	}
}
