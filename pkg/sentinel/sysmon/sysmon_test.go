package sysmon

import (
	"errors"
	"testing"
)

func TestUsedPercent(t *testing.T) {
	tests := []struct {
		name  string
		stats MemoryStats
		want  float64
	}{
		{"half used", MemoryStats{Total: 8 << 30, Available: 4 << 30}, 50},
		{"all available", MemoryStats{Total: 8 << 30, Available: 8 << 30}, 0},
		{"none available", MemoryStats{Total: 8 << 30, Available: 0}, 100},
		{"zero total", MemoryStats{}, 0},
		{"available above total clamps", MemoryStats{Total: 4 << 30, Available: 8 << 30}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.UsedPercent(); got != tt.want {
				t.Errorf("UsedPercent = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSystemProvider(t *testing.T) {
	p := System()

	if got := p.CPUCount(); got < 1 {
		t.Errorf("CPUCount = %d, want at least 1", got)
	}

	mem, err := p.Memory()
	if err != nil {
		t.Fatalf("Memory: %v", err)
	}
	if mem.Total <= 0 {
		t.Errorf("Total = %d, want positive", mem.Total)
	}
	if mem.Available <= 0 || mem.Available > mem.Total {
		t.Errorf("Available = %d, want within (0, %d]", mem.Available, mem.Total)
	}
}

func TestStaticProvider(t *testing.T) {
	s := Static{MemTotal: 16 << 30, MemAvailable: 8 << 30, CPUs: 4, DiskPercent: 72.5}

	mem, err := s.Memory()
	if err != nil {
		t.Fatalf("Memory: %v", err)
	}
	if mem.Total != 16<<30 || mem.Available != 8<<30 {
		t.Errorf("Memory = %+v", mem)
	}
	if s.CPUCount() != 4 {
		t.Errorf("CPUCount = %d, want 4", s.CPUCount())
	}
	usage, err := s.DiskUsagePercent("/")
	if err != nil || usage != 72.5 {
		t.Errorf("DiskUsagePercent = %v, %v", usage, err)
	}
}

func TestStaticProviderError(t *testing.T) {
	wantErr := errors.New("probe failed")
	s := Static{Err: wantErr}

	if _, err := s.Memory(); !errors.Is(err, wantErr) {
		t.Errorf("Memory error = %v, want %v", err, wantErr)
	}
	if _, err := s.DiskUsagePercent("/"); !errors.Is(err, wantErr) {
		t.Errorf("DiskUsagePercent error = %v, want %v", err, wantErr)
	}
	if s.CPUCount() != 1 {
		t.Errorf("CPUCount = %d, want fallback 1", s.CPUCount())
	}
}
