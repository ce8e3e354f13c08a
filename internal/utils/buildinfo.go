package utils

import (
	"context"
	"os/exec"
	"runtime/debug"
	"strings"
	"time"
)

const (
	unknownVersion      = "unknown"
	develVersion        = "(devel)"
	versionProbeTimeout = 2 * time.Second
)

// Version is injected at build time with -ldflags "-X .../internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion reports the ldflags version, then the module version from the
// Go build info, then `git describe` for source checkouts.
func GetApplicationVersion() string {
	if strings.TrimSpace(Version) != "" {
		return strings.TrimSpace(Version)
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}

	ctx, cancel := context.WithTimeout(context.Background(), versionProbeTimeout)
	defer cancel()
	// #nosec G204
	describeOutput, describeError := exec.CommandContext(ctx, "git", "describe", "--tags", "--always", "--dirty").Output()
	if describeError == nil && len(describeOutput) > 0 {
		return strings.TrimSpace(string(describeOutput))
	}
	return unknownVersion
}
