package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"kokorod/internal/domain/registry"
	"kokorod/internal/domain/stream"
	"kokorod/internal/domain/synth"
	"kokorod/internal/platform/config"
	platformerrors "kokorod/internal/platform/errors"
	"kokorod/internal/platform/storage"
)

// VariantDirectory is the registry view the surface needs.
type VariantDirectory interface {
	Active() registry.Variant
	Has(v registry.Variant) bool
	Variants() []registry.Variant
}

// Service wires the synthesis engine into the HTTP routes.
type Service struct {
	cfg      *config.Config
	engine   *synth.Engine
	variants VariantDirectory
	streams  *stream.Manager
	usage    *storage.UsageRepository // nil when storage is disabled
	logger   *slog.Logger
	started  time.Time
	ready    atomic.Bool
}

func NewService(cfg *config.Config, engine *synth.Engine, variants VariantDirectory, streams *stream.Manager, usage *storage.UsageRepository, logger *slog.Logger) (*Service, error) {
	const op = "http.NewService"
	if cfg == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, op, "config is required")
	}
	if engine == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, op, "engine is required")
	}
	return &Service{
		cfg:      cfg,
		engine:   engine,
		variants: variants,
		streams:  streams,
		usage:    usage,
		logger:   logger,
		started:  time.Now(),
	}, nil
}

// SetReady flips the readiness probe once the pack and model are
// loaded and the server is accepting work.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Register mounts every route on the engine.
func (s *Service) Register(router *gin.Engine) {
	v1 := router.Group("/v1")
	v1.POST("/audio/speech", s.handleSpeech)
	v1.GET("/audio/voices", s.handleVoices)
	v1.GET("/audio/voices/detailed", s.handleVoicesDetailed)

	router.GET("/healthz", s.handleHealthz)
	router.GET("/readyz", s.handleReadyz)

	api := router.Group("/api")
	api.GET("/status", s.handleStatus)
	api.GET("/usage/recent", s.handleUsageRecent)

	router.GET("/openapi.json", s.handleOpenAPI)
	router.GET("/docs", s.handleDocs)
}

// handleVoices lists the pack's voice ids.
// @Summary List voices
// @Tags Voices
// @Produce json
// @Success 200 {object} object
// @Router /v1/audio/voices [get]
func (s *Service) handleVoices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"voices": s.engine.Voices().List()})
}

type voiceDetail struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Gender   string `json:"gender"`
}

// handleVoicesDetailed lists voices with their derived metadata.
// @Summary List voices with metadata
// @Tags Voices
// @Produce json
// @Success 200 {array} voiceDetail
// @Router /v1/audio/voices/detailed [get]
func (s *Service) handleVoicesDetailed(c *gin.Context) {
	pack := s.engine.Voices()
	details := make([]voiceDetail, 0, pack.Count())
	for _, id := range pack.List() {
		v, err := pack.Get(id)
		if err != nil {
			continue
		}
		details = append(details, voiceDetail{ID: id, Language: v.Language, Gender: v.Gender})
	}
	c.JSON(http.StatusOK, details)
}

func (s *Service) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Service) handleReadyz(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// handleUsageRecent returns the latest synthesis records.
// @Summary Recent synthesis usage
// @Tags Admin
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/usage/recent [get]
func (s *Service) handleUsageRecent(c *gin.Context) {
	if s.usage == nil {
		RespondSuccess(c, http.StatusOK, []storage.UsageRecord{}, "storage disabled")
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	records, err := s.usage.Recent(c.Request.Context(), limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, records, "")
}
