package actions

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/logging"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// themeKeyPath is the registry path holding Windows personalization values.
const themeKeyPath = `HKCU\Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`

// visualFXKeyPath holds the visual effects preset selector.
const visualFXKeyPath = `HKCU\Software\Microsoft\Windows\CurrentVersion\Explorer\VisualEffects`

// ThemePerformance adjusts Windows theme settings for performance: light
// theme, transparency off, and the "best performance" visual effects preset.
type ThemePerformance struct{}

// Kind identifies the action.
func (*ThemePerformance) Kind() types.ActionKind {
	return types.ActionThemePerformance
}

// themeSetting is one registry value write.
type themeSetting struct {
	keyPath string
	name    string
	value   int
}

// performanceSettings are the writes applied when optimizing for
// performance.
var performanceSettings = []themeSetting{
	{themeKeyPath, "SystemUsesLightTheme", 1},
	{themeKeyPath, "AppsUseLightTheme", 1},
	{themeKeyPath, "EnableTransparency", 0},
	{visualFXKeyPath, "VisualFXSetting", 2},
}

// Run applies the theme settings through reg.exe. The registry gates the
// task to Windows; elsewhere the action reports unsupported.
// The "optimize_for_performance" parameter (default true) is kept for
// profile symmetry: false leaves the system untouched.
func (*ThemePerformance) Run(ctx context.Context, req Request) (any, error) {
	if runtime.GOOS != "windows" {
		return &types.ActionOutcome{
			Success: false,
			Details: "theme performance adjustment is only supported on Windows",
		}, nil
	}

	if !req.BoolParam("optimize_for_performance", true) {
		return &types.ActionOutcome{
			Success: true,
			Details: "theme optimization disabled by parameter",
		}, nil
	}

	log := logging.Get("actions")
	var applied, failed []string
	for _, s := range performanceSettings {
		err := runCommand(ctx, "reg", "add", s.keyPath,
			"/v", s.name, "/t", "REG_DWORD", "/d", strconv.Itoa(s.value), "/f")
		if err != nil {
			log.Warn("failed to set theme value", "name", s.name, "error", err)
			failed = append(failed, s.name)
			continue
		}
		applied = append(applied, fmt.Sprintf("%s=%d", s.name, s.value))
	}

	outcome := &types.ActionOutcome{
		Success: len(failed) == 0,
		Details: fmt.Sprintf("applied theme settings: %s", strings.Join(applied, ", ")),
	}
	if len(failed) > 0 {
		outcome.Warning = fmt.Sprintf("failed settings: %s", strings.Join(failed, ", "))
	}
	return outcome, nil
}
