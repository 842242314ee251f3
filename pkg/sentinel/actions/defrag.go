package actions

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/logging"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// DefragmentDisk runs the Windows defrag tool against one drive.
// The registry gates the task to Windows; on any other platform the action
// reports unsupported rather than failing the run.
type DefragmentDisk struct{}

// Kind identifies the action.
func (*DefragmentDisk) Kind() types.ActionKind {
	return types.ActionDefragmentDisk
}

// Run defragments the drive named by the "drive" parameter, defaulting to
// the system drive. Requires administrator rights on Windows.
func (*DefragmentDisk) Run(ctx context.Context, req Request) (any, error) {
	if runtime.GOOS != "windows" {
		return &types.ActionOutcome{
			Success: false,
			Details: "disk defragmentation is only supported on Windows",
		}, nil
	}

	drive := req.StringParam("drive", systemDrive())
	drive = strings.TrimSuffix(strings.ToUpper(drive), ":")

	log := logging.Get("actions")
	log.Info("starting defragmentation", "drive", drive)

	if err := runCommand(ctx, "defrag", drive+":", "/U", "/V"); err != nil {
		return nil, fmt.Errorf("defrag %s: %w", drive, err)
	}

	return &types.ActionOutcome{
		Success: true,
		Details: fmt.Sprintf("defragmented drive %s:", drive),
	}, nil
}

// systemDrive returns the Windows system drive letter, defaulting to C.
func systemDrive() string {
	if drive := os.Getenv("SystemDrive"); drive != "" {
		return strings.TrimSuffix(drive, ":")
	}
	return "C"
}
