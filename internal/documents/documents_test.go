package documents

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"muawin-server/internal/models"
)

func sampleDoc() Prescription {
	return Prescription{
		PatientName:  "Ahmed Khan",
		Age:          45,
		Gender:       "Male",
		Date:         time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Diagnosis:    "Selected Diagnoses:\n• Viral Fever",
		Prescription: "PRESCRIPTION:\n\n• Panadol - 500mg - 5 days\n\nADDITIONAL INSTRUCTIONS:\nRest <well>\n",
		Tests:        []string{"CBC"},
		Referrals:    []models.ReferralSummary{{SpecialistName: "Dr. Bilal Javed", Category: "Pulmonology", Hospital: "Ojha Institute of Chest Diseases"}},
	}
}

type failingEngine struct{}

func (failingEngine) Name() string { return "broken" }
func (failingEngine) RenderPDF(context.Context, Prescription, []byte) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestRenderPDFWithBuiltInWriter(t *testing.T) {
	r := NewRenderer("", nil)
	out, err := r.Render(context.Background(), sampleDoc(), FormatPDF)
	if err != nil {
		t.Fatal(err)
	}
	if out.Engine != "fpdf" || out.ContentType != "application/pdf" || out.Extension != "pdf" {
		t.Fatalf("unexpected result %+v", out)
	}
	if !bytes.HasPrefix(out.Data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestRenderSkipsMissingWkhtmltopdf(t *testing.T) {
	r := NewRenderer("/nonexistent/wkhtmltopdf", nil)
	out, err := r.Render(context.Background(), sampleDoc(), FormatPDF)
	if err != nil {
		t.Fatal(err)
	}
	if out.Engine != "fpdf" {
		t.Fatalf("expected fpdf fallback, got %s", out.Engine)
	}
}

func TestRenderFallsBackToHTML(t *testing.T) {
	r := &Renderer{engines: []pdfEngine{failingEngine{}}, logger: zap.NewNop()}

	out, err := r.Render(context.Background(), sampleDoc(), FormatPDF)
	if err != nil {
		t.Fatal(err)
	}
	if out.Engine != "html" || out.Extension != "html" {
		t.Fatalf("expected html fallback, got %+v", out)
	}
}

func TestRenderHTML(t *testing.T) {
	r := NewRenderer("", nil)
	out, err := r.Render(context.Background(), sampleDoc(), FormatHTML)
	if err != nil {
		t.Fatal(err)
	}
	html := string(out.Data)
	for _, want := range []string{
		"Medical Prescription",
		"Patient: Ahmed Khan",
		"Date: 2024-03-01 10:30",
		"<li>• Panadol - 500mg - 5 days</li>",
		"Additional Instructions:",
		"Rest &lt;well&gt;",
		"<li>CBC</li>",
		"Dr. Bilal Javed (Pulmonology, Ojha Institute of Chest Diseases)",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("html missing %q:\n%s", want, html)
		}
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatPDF, true},
		{"pdf", FormatPDF, true},
		{"html", FormatHTML, true},
		{"docx", "", false},
	}
	for _, c := range cases {
		got, ok := ParseFormat(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseFormat(%q) = %q, %v", c.in, got, ok)
		}
	}
}
