package metrics

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats - снимок потребления ресурсов процессом
type ProcessStats struct {
	Uptime     time.Duration
	CPUPercent float64
	RSSBytes   uint64
	HeapBytes  uint64
	Goroutines int
}

// ProcessSampler снимает статистику текущего процесса через gopsutil
type ProcessSampler struct {
	start time.Time
	proc  *process.Process
}

// NewProcessSampler создаёт сэмплер для текущего процесса
func NewProcessSampler() (*ProcessSampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &ProcessSampler{start: time.Now(), proc: proc}, nil
}

// Sample возвращает текущую статистику. Если CPU процесса недоступен,
// берётся общая загрузка системы.
func (s *ProcessSampler) Sample() (ProcessStats, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := ProcessStats{
		Uptime:     time.Since(s.start),
		HeapBytes:  m.HeapAlloc,
		Goroutines: runtime.NumGoroutine(),
	}

	mem, err := s.proc.MemoryInfo()
	if err != nil {
		return stats, err
	}
	stats.RSSBytes = mem.RSS

	cpuPercent, err := s.proc.CPUPercent()
	if err != nil {
		percents, sysErr := cpu.Percent(100*time.Millisecond, false)
		if sysErr != nil || len(percents) == 0 {
			return stats, err
		}
		cpuPercent = percents[0]
	}
	stats.CPUPercent = cpuPercent

	return stats, nil
}
