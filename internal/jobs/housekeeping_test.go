package jobs

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"muawin-server/internal/models"
)

func TestHousekeeperPurges(t *testing.T) {
	db, err := models.InitDB(models.DatabaseConfig{Driver: "sqlite", DSN: "file:housekeeping?mode=memory&cache=shared", Silent: true})
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h := NewHousekeeper(db, zap.NewNop())
	h.now = func() time.Time { return now }

	tokens := []models.RefreshToken{
		{DoctorID: 1, Token: "expired", ExpiresAt: now.Add(-time.Hour)},
		{DoctorID: 1, Token: "revoked", ExpiresAt: now.Add(time.Hour), IsRevoked: true},
		{DoctorID: 1, Token: "live", ExpiresAt: now.Add(time.Hour)},
	}
	if err := db.Create(&tokens).Error; err != nil {
		t.Fatal(err)
	}

	sessions := []models.ConsultationSession{
		{DoctorID: 1, PatientID: "P001", Stage: models.StageDiagnosed},
		{DoctorID: 1, PatientID: "P002", Stage: models.StagePatientSelected},
		{DoctorID: 1, PatientID: "P003", Stage: models.StageFinalized},
	}
	if err := db.Create(&sessions).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&sessions[0]).UpdateColumn("updated_at", now.Add(-25*time.Hour)).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&sessions[1]).UpdateColumn("updated_at", now.Add(-time.Hour)).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&sessions[2]).UpdateColumn("updated_at", now.Add(-48*time.Hour)).Error; err != nil {
		t.Fatal(err)
	}

	n, err := h.PurgeRefreshTokens()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 tokens purged, got %d", n)
	}
	var left []models.RefreshToken
	db.Find(&left)
	if len(left) != 1 || left[0].Token != "live" {
		t.Fatalf("unexpected remaining tokens %+v", left)
	}

	n, err = h.PurgeStaleSessions()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 session purged, got %d", n)
	}
	var remaining []models.ConsultationSession
	db.Order("patient_id").Find(&remaining)
	if len(remaining) != 2 || remaining[0].PatientID != "P002" || remaining[1].Stage != models.StageFinalized {
		t.Fatalf("unexpected remaining sessions %+v", remaining)
	}
}
