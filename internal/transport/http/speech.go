package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kokorod/internal/domain/audio"
	"kokorod/internal/domain/registry"
	"kokorod/internal/domain/synth"
	"kokorod/internal/platform/storage"
)

// speechRequest is the OpenAI-compatible request body plus the
// engine's extensions.
type speechRequest struct {
	Model            string  `json:"model"`
	Input            string  `json:"input" binding:"required"`
	Voice            string  `json:"voice"`
	ResponseFormat   string  `json:"response_format"`
	Speed            float64 `json:"speed"`
	InitialSilenceMs int     `json:"initial_silence_ms"`
	Language         string  `json:"language"`
	AutoDetect       *bool   `json:"auto_detect"`
	ForceStyle       bool    `json:"force_style"`
}

// handleSpeech synthesizes the input and returns raw audio bytes.
// @Summary Synthesize speech
// @Tags Speech
// @Accept json
// @Produce audio/wav
// @Param request body speechRequest true "synthesis request"
// @Success 200 {file} binary
// @Failure 400 {object} APIResponse
// @Router /v1/audio/speech [post]
func (s *Service) handleSpeech(c *gin.Context) {
	var body speechRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	// OpenAI clients send their own model names ("tts-1"); only ids
	// that name a loaded variant select one.
	var variant registry.Variant
	if v, ok := registry.ParseVariant(body.Model); ok && s.variants != nil && s.variants.Has(v) {
		variant = v
	}

	// Detection is on unless the caller pinned a language or turned it
	// off explicitly.
	autoDetect := body.Language == ""
	if body.AutoDetect != nil {
		autoDetect = *body.AutoDetect
	}

	res, err := s.engine.Synthesize(c.Request.Context(), synth.Request{
		Text:             body.Input,
		Voice:            body.Voice,
		Language:         body.Language,
		Speed:            body.Speed,
		InitialSilenceMs: body.InitialSilenceMs,
		AutoDetect:       autoDetect,
		ForceStyle:       body.ForceStyle,
		Variant:          variant,
		Surface:          storage.SurfaceHTTP,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	switch body.ResponseFormat {
	case "", "wav":
		c.Data(http.StatusOK, "audio/wav", audio.EncodeWAV(res.Samples))
	case "mp3":
		data, err := audio.EncodeMP3(res.Samples)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.Data(http.StatusOK, "audio/mpeg", data)
	default:
		RespondError(c, http.StatusBadRequest, "unsupported response_format "+body.ResponseFormat, nil)
	}
}
