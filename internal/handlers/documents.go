package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"muawin-server/internal/documents"
	"muawin-server/internal/models"
	"muawin-server/internal/storage"
)

// DocumentRenderer turns prescription content into a printable document.
type DocumentRenderer interface {
	Render(ctx context.Context, doc documents.Prescription, format documents.Format) (*documents.Rendered, error)
}

// DocumentInfo describes a stored prescription document.
type DocumentInfo struct {
	ID          string `json:"id"`
	ContentType string `json:"contentType"`
	Engine      string `json:"engine"`
	Size        int    `json:"size"`
}

// publisher renders a consultation's prescription and stores it.
type publisher struct {
	renderer DocumentRenderer
	store    storage.Store
	logger   *zap.Logger
}

// publish renders c, stores the result and records the document id on the
// consultation row. Any previously stored document is removed.
func (p *publisher) publish(ctx context.Context, db *gorm.DB, c *models.Consultation, format documents.Format) (*DocumentInfo, error) {
	var doctor models.Doctor
	if err := db.First(&doctor, c.DoctorID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	patient := c.Patient
	if patient.ID == "" {
		if err := db.First(&patient, "id = ?", c.PatientID).Error; err != nil {
			return nil, fmt.Errorf("load patient: %w", err)
		}
	}

	out, err := p.renderer.Render(ctx, documents.FromConsultation(*c, patient, doctor), format)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("consultation-%d-%s.%s", c.ID, uuid.NewString()[:8], out.Extension)
	id, err := p.store.Put(ctx, name, out.Data, out.ContentType, map[string]string{
		"consultation-id": strconv.FormatUint(uint64(c.ID), 10),
		"patient-id":      c.PatientID,
		"engine":          out.Engine,
	})
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	previous := c.PrescriptionPDF
	if err := db.Model(c).Update("prescription_pdf", id).Error; err != nil {
		_ = p.store.Delete(ctx, id)
		return nil, fmt.Errorf("record document: %w", err)
	}
	c.PrescriptionPDF = id

	if previous != "" && previous != id {
		if err := p.store.Delete(ctx, previous); err != nil && !errors.Is(err, storage.ErrNoObject) {
			p.logger.Warn("failed to remove replaced document", zap.String("id", previous), zap.Error(err))
		}
	}

	p.logger.Info("prescription document stored",
		zap.Uint("consultation_id", c.ID),
		zap.String("engine", out.Engine),
		zap.String("id", id))

	return &DocumentInfo{ID: id, ContentType: out.ContentType, Engine: out.Engine, Size: len(out.Data)}, nil
}
