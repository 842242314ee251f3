package main

import (
	"testing"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/config"
)

func TestApplyDryRun(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		want     string
	}{
		{"no override", "", ";;;dry_run=true"},
		{"enabled only", "true", "true;;;dry_run=true"},
		{"enabled and priority", "true;2", "true;2;;dry_run=true"},
		{"full positional", "true;2;300", "true;2;300;dry_run=true"},
		{"with existing param", "true;2;300;level=1", "true;2;300;level=1;dry_run=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Profiles: map[string]map[string]string{"default": {}},
			}
			if tt.existing != "" {
				cfg.Profiles["default"]["temp_cleanup"] = tt.existing
			}

			applyDryRun(cfg)

			got := cfg.Profiles["default"]["temp_cleanup"]
			if got != tt.want {
				t.Errorf("override = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyDryRunNilProfiles(t *testing.T) {
	cfg := &config.Config{}
	applyDryRun(cfg)
	if cfg.Profiles == nil {
		t.Error("Profiles left nil")
	}
}
