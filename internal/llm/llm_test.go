package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"muawin-server/internal/models"
)

type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func newFakeOpenAI(t *testing.T, status int, reply string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   req.Model,
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": reply}, "finish_reason": "stop"},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientCompleteUsesCache(t *testing.T) {
	var calls int32
	srv := newFakeOpenAI(t, http.StatusOK, "  DIAGNOSIS:\n- Influenza\n", &calls)

	cache := &memCache{data: map[string]string{}}
	c := NewClient(Config{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "gpt-3.5-turbo", Temperature: 0.7}, cache, nil)

	for i := 0; i < 2; i++ {
		got, err := c.Complete(context.Background(), "patient prompt")
		if err != nil {
			t.Fatalf("complete: %v", err)
		}
		if got != "DIAGNOSIS:\n- Influenza" {
			t.Fatalf("unexpected reply %q", got)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected one upstream call, got %d", n)
	}
}

func TestClientCompleteWrapsVendorErrors(t *testing.T) {
	var calls int32
	srv := newFakeOpenAI(t, http.StatusInternalServerError, "", &calls)
	c := NewClient(Config{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "gpt-3.5-turbo"}, nil, nil)

	_, err := c.Complete(context.Background(), "prompt")
	var vendorErr *VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("expected VendorError, got %v", err)
	}
	if !strings.Contains(err.Error(), "upstream exploded") {
		t.Fatalf("vendor message lost: %v", err)
	}
}

func TestClientWithoutKey(t *testing.T) {
	c := NewClient(Config{}, nil, nil)
	if c.Configured() {
		t.Fatal("client without key reports configured")
	}
	if _, err := c.Complete(context.Background(), "prompt"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

type echoCompleter struct{ prompts []string }

func (e *echoCompleter) Complete(_ context.Context, prompt string) (string, error) {
	e.prompts = append(e.prompts, prompt)
	return "ترجمہ", nil
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		target   string
		wantCode string
		wantRTL  bool
		wantCall bool
	}{
		{target: "Urdu", wantCode: "ur", wantRTL: true, wantCall: true},
		{target: "ZH-CN", wantCode: "zh-cn", wantCall: true},
		{target: "english", wantCode: "en"},
	}
	for _, c := range cases {
		t.Run(c.target, func(t *testing.T) {
			fake := &echoCompleter{}
			out, lang, err := Translate(context.Background(), fake, "Take one tablet daily", c.target)
			if err != nil {
				t.Fatalf("translate: %v", err)
			}
			if lang.Code != c.wantCode || lang.RTL != c.wantRTL {
				t.Fatalf("unexpected language %+v", lang)
			}
			if c.wantCall != (len(fake.prompts) == 1) {
				t.Fatalf("unexpected completer calls: %d", len(fake.prompts))
			}
			if !c.wantCall && out != "Take one tablet daily" {
				t.Fatalf("english should pass through, got %q", out)
			}
		})
	}

	if _, _, err := Translate(context.Background(), &echoCompleter{}, "x", "Klingon"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestDiagnosisPromptIncludesPatient(t *testing.T) {
	p := models.Patient{Name: "Ahmed Khan", Age: 45, Gender: "Male", Temperature: "37.2°C", BloodPressure: "130/85", PreConditions: "Hypertension"}
	prompt := DiagnosisPrompt(p, []string{"Fever", "Cough"})

	for _, want := range []string{"Name: Ahmed Khan", "Age: 45", "Blood Pressure: 130/85", "Fever, Cough", "DIAGNOSIS:", "Reasons:", "Treatment plan:"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}

	regen := RegenerationPrompt(p, []string{"Fever"}, "Consider malaria")
	if !strings.HasPrefix(regen, "Another doctor has provide following comments about the diagnosis:\nConsider malaria") {
		t.Fatalf("unexpected regeneration prompt:\n%s", regen)
	}
}
