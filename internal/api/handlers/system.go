package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/store/inmemory"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// cpuSampleInterval keeps the status call fast enough for dashboard polling.
const cpuSampleInterval = 100 * time.Millisecond

// SnapshotSource is the slice of the record store used by SystemHandler.
type SnapshotSource interface {
	Snapshot(ctx context.Context) inmemory.Snapshot
}

// SystemStatus is the body of GET /api/system/status.
type SystemStatus struct {
	Status        string         `json:"status"`
	StartedAt     time.Time      `json:"started_at"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	GoVersion     string         `json:"go_version"`
	Goroutines    int            `json:"goroutines"`
	CPUPercent    float64        `json:"cpu_percent"`
	MemoryPercent float64        `json:"memory_percent"`
	HeapAllocMB   float64        `json:"heap_alloc_mb"`
	Records       map[string]int `json:"records"`
}

// SystemHandler reports process health and record counts.
type SystemHandler struct {
	store     SnapshotSource
	now       Clock
	startedAt time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a new system handler; uptime counts from now().
func NewSystemHandler(store SnapshotSource, now Clock, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{store: store, now: now, startedAt: now(), log: log}
}

// GetStatus handles GET /api/system/status
func (h *SystemHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.systemStats()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	snap := h.store.Snapshot(r.Context())
	middleware.WriteJSON(w, http.StatusOK, SystemStatus{
		Status:        "healthy",
		StartedAt:     h.startedAt,
		UptimeSeconds: int64(h.now().Sub(h.startedAt).Seconds()),
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		HeapAllocMB:   float64(ms.HeapAlloc) / 1024 / 1024,
		Records: map[string]int{
			"transactions": len(snap.Transactions),
			"budgets":      len(snap.Budgets),
			"accounts":     len(snap.Accounts),
			"investments":  len(snap.Investments),
			"sips":         len(snap.SIPs),
		},
	})
}

// systemStats returns CPU and RAM usage percentages. Failures are logged
// and reported as zero.
func (h *SystemHandler) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(cpuSampleInterval, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = nil
	}
	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuAvg, 0
	}
	return cpuAvg, memStat.UsedPercent
}
