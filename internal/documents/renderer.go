package documents

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Renderer produces prescription documents. PDF engines are tried in order
// and the HTML rendition is returned when all of them fail.
type Renderer struct {
	engines []pdfEngine
	logger  *zap.Logger
}

// NewRenderer returns a renderer that tries wkhtmltopdf at wkhtmltopdfPath
// first, then the built-in PDF writer.
func NewRenderer(wkhtmltopdfPath string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	var engines []pdfEngine
	if wkhtmltopdfPath != "" {
		engines = append(engines, wkhtmltopdf{path: wkhtmltopdfPath})
	}
	engines = append(engines, fpdfEngine{})
	return &Renderer{engines: engines, logger: logger}
}

// Render builds the document in the requested format.
func (r *Renderer) Render(ctx context.Context, doc Prescription, format Format) (*Rendered, error) {
	html, err := renderHTML(doc)
	if err != nil {
		return nil, fmt.Errorf("render prescription html: %w", err)
	}

	if format == FormatPDF {
		for _, engine := range r.engines {
			data, err := engine.RenderPDF(ctx, doc, html)
			if err != nil {
				r.logger.Warn("pdf engine failed, trying next",
					zap.String("engine", engine.Name()),
					zap.Error(err))
				continue
			}
			return &Rendered{Data: data, ContentType: "application/pdf", Extension: "pdf", Engine: engine.Name()}, nil
		}
	}

	return &Rendered{Data: html, ContentType: "text/html; charset=utf-8", Extension: "html", Engine: "html"}, nil
}
