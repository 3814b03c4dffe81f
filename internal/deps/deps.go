// Package deps checks that the external binaries movielog shells out to are
// installed and executable.
package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// Requirement defines an external dependency movielog relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// VersionArgs, when set, are passed to the binary to capture its version line.
	VersionArgs []string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Version     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Satisfied reports whether every non-optional dependency is available.
func Satisfied(statuses []Status) bool {
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			return false
		}
	}
	return true
}

// CheckBinaries resolves each requirement on PATH and, when asked, records
// the first line of its version output. A binary that resolves but fails to
// report a version is still available.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{
			Name:        req.Name,
			Command:     strings.TrimSpace(req.Command),
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch resolved, err := exec.LookPath(status.Command); {
		case status.Command == "":
			status.Detail = "command not configured"
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		default:
			status.Path = resolved
			status.Available = true
			if len(req.VersionArgs) > 0 {
				status.Version = versionLine(ctx, resolved, req.VersionArgs)
			}
		}
		results = append(results, status)
	}
	return results
}

func versionLine(ctx context.Context, binary string, args []string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, binary, args...).Output()
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

// FFprobe returns the requirement for the container probe binary.
func FFprobe(binary string) Requirement {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	return Requirement{
		Name:        "FFprobe",
		Command:     binary,
		Description: "Required to read track metadata from new files",
		VersionArgs: []string{"-version"},
	}
}
