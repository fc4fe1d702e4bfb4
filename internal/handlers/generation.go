package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"muawin-server/internal/llm"
	"muawin-server/internal/utils"
)

// GenerationHandler serves the stateless generation endpoints.
type GenerationHandler struct {
	LLM    llm.Completer
	Logger *zap.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(completer llm.Completer, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{LLM: completer, Logger: logger}
}

// PromptRequest represents a raw prompt.
type PromptRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// GenerateDiagnosis sends the prompt to the model as it is.
func (h *GenerationHandler) GenerateDiagnosis(c *gin.Context) {
	h.generate(c, "diagnosis", func(p string) string { return p })
}

// GeneratePrescription treats the prompt as a diagnosis and asks for a
// prescription for it.
func (h *GenerationHandler) GeneratePrescription(c *gin.Context) {
	h.generate(c, "prescription", llm.PrescriptionRequestPrompt)
}

func (h *GenerationHandler) generate(c *gin.Context, key string, template func(string) string) {
	var req PromptRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	text, err := h.LLM.Complete(c.Request.Context(), template(req.Prompt))
	if err != nil {
		respondLLMError(c, h.Logger, err)
		return
	}
	utils.Success(c, "Generated "+key, gin.H{key: text})
}
