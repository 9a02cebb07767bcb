package httptransport

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"kokorod/internal/platform/observability"
)

type systemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
	Goroutines    int     `json:"goroutines"`
}

type serverStatus struct {
	Status         string                      `json:"status"`
	UptimeSeconds  int64                       `json:"uptime_seconds"`
	ActiveVariant  string                      `json:"active_variant"`
	LoadedVariants []string                    `json:"loaded_variants"`
	Voices         int                         `json:"voices"`
	ActiveStreams  int                         `json:"active_streams"`
	System         systemStats                 `json:"system"`
	Metrics        []observability.MetricPoint `json:"metrics,omitempty"`
}

// handleStatus reports server and host statistics.
// @Summary Server status
// @Tags Admin
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/status [get]
func (s *Service) handleStatus(c *gin.Context) {
	status := serverStatus{
		Status:        "running",
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Voices:        s.engine.Voices().Count(),
		System: systemStats{
			Goroutines: runtime.NumGoroutine(),
		},
	}

	if s.variants != nil {
		status.ActiveVariant = string(s.variants.Active())
		for _, v := range s.variants.Variants() {
			status.LoadedVariants = append(status.LoadedVariants, string(v))
		}
	}
	if s.streams != nil {
		status.ActiveStreams = s.streams.Active()
	}

	// Instantaneous (non-blocking) CPU reading; the first call after
	// start reports 0.
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status.System.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status.System.MemoryPercent = vm.UsedPercent
		status.System.MemoryUsedMB = vm.Used / 1024 / 1024
		status.System.MemoryTotalMB = vm.Total / 1024 / 1024
	}

	if observability.Enabled() {
		status.Metrics = observability.Snapshot()
	}

	RespondSuccess(c, http.StatusOK, status, "")
}
