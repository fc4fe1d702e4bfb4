package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/go-pdf/fpdf"

	"muawin-server/internal/clinical"
)

type pdfEngine interface {
	Name() string
	RenderPDF(ctx context.Context, doc Prescription, html []byte) ([]byte, error)
}

// wkhtmltopdf converts the HTML rendition with the external binary.
type wkhtmltopdf struct {
	path string
}

func (w wkhtmltopdf) Name() string { return "wkhtmltopdf" }

func (w wkhtmltopdf) RenderPDF(ctx context.Context, _ Prescription, html []byte) ([]byte, error) {
	bin, err := exec.LookPath(w.path)
	if err != nil {
		return nil, fmt.Errorf("wkhtmltopdf not available: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--quiet", "--encoding", "utf-8", "-", "-")
	cmd.Stdin = bytes.NewReader(html)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("wkhtmltopdf: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	if !bytes.HasPrefix(stdout.Bytes(), []byte("%PDF")) {
		return nil, errors.New("wkhtmltopdf: output is not a PDF")
	}
	return stdout.Bytes(), nil
}

// fpdfEngine draws the prescription with the core Arial font. Text is
// reduced to Latin-1 first.
type fpdfEngine struct{}

func (fpdfEngine) Name() string { return "fpdf" }

func (fpdfEngine) RenderPDF(_ context.Context, doc Prescription, _ []byte) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(clinical.CleanText(s)) }

	heading := func(s string) {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, text(s), "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 12)
	}
	line := func(s string) {
		pdf.CellFormat(0, 8, text(s), "", 1, "", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Medical Prescription", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	line("Patient: " + orNA(doc.PatientName))
	line("Age: " + strconv.Itoa(doc.Age))
	line("Gender: " + orNA(doc.Gender))
	line("Date: " + formatDate(doc))
	if doc.DoctorName != "" {
		line("Doctor: " + doc.DoctorName)
	}
	pdf.Ln(5)

	heading("Diagnosis:")
	pdf.MultiCell(0, 8, text(doc.Diagnosis), "", "", false)
	pdf.Ln(5)

	heading("Prescription:")
	if sp, ok := doc.structured(); ok {
		for _, med := range sp.Medications {
			pdf.MultiCell(0, 8, text(med), "", "", false)
		}
		if sp.Instructions != "" {
			pdf.Ln(5)
			heading("Additional Instructions:")
			pdf.MultiCell(0, 8, text(sp.Instructions), "", "", false)
		}
	} else {
		pdf.MultiCell(0, 8, text(doc.Prescription), "", "", false)
	}

	if len(doc.Tests) > 0 {
		pdf.Ln(5)
		heading("Recommended Tests:")
		for _, t := range doc.Tests {
			line("- " + t)
		}
	}
	if len(doc.Referrals) > 0 {
		pdf.Ln(5)
		heading("Referrals:")
		for _, r := range doc.Referrals {
			entry := fmt.Sprintf("- %s (%s, %s)", r.SpecialistName, r.Category, r.Hospital)
			if r.Reason != "" {
				entry += ": " + r.Reason
			}
			pdf.MultiCell(0, 8, text(entry), "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("fpdf: %w", err)
	}
	return buf.Bytes(), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
