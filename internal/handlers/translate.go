package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"muawin-server/internal/llm"
	"muawin-server/internal/utils"
)

// TranslateHandler translates prescriptions into the patient's language.
type TranslateHandler struct {
	DB     *gorm.DB
	LLM    llm.Completer
	Logger *zap.Logger
}

// NewTranslateHandler creates a new TranslateHandler.
func NewTranslateHandler(db *gorm.DB, completer llm.Completer, logger *zap.Logger) *TranslateHandler {
	return &TranslateHandler{DB: db, LLM: completer, Logger: logger}
}

// TranslateRequest represents the request body for a translation. When
// targetLanguage is empty the patient's preferred language is used.
type TranslateRequest struct {
	Text           string `json:"text" binding:"required"`
	TargetLanguage string `json:"targetLanguage"`
	PatientID      string `json:"patientId"`
}

// TranslateResponse is the translated text and its direction.
type TranslateResponse struct {
	TranslatedText string `json:"translatedText"`
	TargetLanguage string `json:"targetLanguage"`
	LanguageCode   string `json:"languageCode"`
	RTL            bool   `json:"rtl"`
}

// Translate translates text through the language model.
func (h *TranslateHandler) Translate(c *gin.Context) {
	var req TranslateRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	target := req.TargetLanguage
	if target == "" {
		if req.PatientID == "" {
			utils.BadRequest(c, "targetLanguage or patientId is required")
			return
		}
		patient, ok := findPatient(c, h.DB, req.PatientID)
		if !ok {
			return
		}
		target = patient.Language
	}

	text, lang, err := llm.Translate(c.Request.Context(), h.LLM, req.Text, target)
	if err != nil {
		if errors.Is(err, llm.ErrUnsupportedLanguage) {
			utils.BadRequest(c, err.Error())
			return
		}
		respondLLMError(c, h.Logger, err)
		return
	}

	utils.Success(c, "Translation successful", TranslateResponse{
		TranslatedText: text,
		TargetLanguage: lang.Name,
		LanguageCode:   lang.Code,
		RTL:            lang.RTL,
	})
}

// GetLanguages lists the supported target languages.
func (h *TranslateHandler) GetLanguages(c *gin.Context) {
	utils.Success(c, "Languages fetched successfully", llm.Languages)
}
