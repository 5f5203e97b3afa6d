package dispatch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/glideshow/internal/action"
	"github.com/dshills/glideshow/internal/resource"
)

// Tool is a discovered external tool script.
type Tool struct {
	// Suffix is the tool's identifier, e.g. "0" or "a".
	Suffix string
	// Path is the resolved executable path.
	Path string
}

// ActionName returns the action name a tool registers under.
func (t Tool) ActionName() string {
	return "external_tool_" + t.Suffix
}

// toolExtensions are the filename extensions probed during discovery.
var toolExtensions = []string{"", ".sh", ".py"}

// DiscoverTools scans a directory for executables named base+suffix,
// where suffix is 0-99 or a-z. Each found tool becomes an action. The
// first matching extension wins for a given suffix.
func DiscoverTools(dir, base string) (map[string]Tool, error) {
	if base == "" {
		base = "tool"
	}
	if dir == "" {
		dir = "."
	}

	var suffixes []string
	for i := 0; i < 100; i++ {
		suffixes = append(suffixes, fmt.Sprintf("%d", i))
	}
	for c := 'a'; c <= 'z'; c++ {
		suffixes = append(suffixes, string(c))
	}

	tools := make(map[string]Tool)
	for _, suffix := range suffixes {
		for _, ext := range toolExtensions {
			path := filepath.Join(dir, base+suffix+ext)
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			if info.Mode()&0o111 == 0 {
				continue
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			tools[suffix] = Tool{Suffix: suffix, Path: abs}
			break
		}
	}
	return tools, nil
}

// toolEnv builds the environment exposed to an external tool. Tools see
// the current resource and session state through GS_-prefixed variables
// on top of the parent environment.
func toolEnv(tool Tool, view *action.View, desc resource.Descriptor) []string {
	total := view.Resources.Len()
	percent := 0
	if total > 0 {
		percent = (view.CurrentIndex + 1) * 100 / total
	}

	env := os.Environ()
	env = append(env,
		"GS_TOOL_ID="+tool.Suffix,
		"GS_IMAGE_PATH="+desc.AbsPath,
		"GS_IMAGE_NAME="+desc.BaseName(),
		"GS_IMAGE_DIMENSIONS="+desc.Dimensions(),
		fmt.Sprintf("GS_IMAGE_SIZE=%d", desc.Size),
		fmt.Sprintf("GS_IMAGE_INDEX=%d", view.CurrentIndex+1),
		fmt.Sprintf("GS_IMAGE_TOTAL=%d", total),
		fmt.Sprintf("GS_PROGRESS_PERCENT=%d", percent),
		"GS_SESSION_ID="+view.SessionID,
		fmt.Sprintf("GS_PAUSED=%t", view.Paused),
		fmt.Sprintf("GS_SHUFFLE=%t", view.Shuffle),
		fmt.Sprintf("GS_REPEAT=%t", view.Repeat),
		fmt.Sprintf("GS_SPEED=%g", view.SpeedSeconds),
	)
	return env
}

// runTool executes a tool against the current resource. Exit code 0
// keeps the resource, exit code 1 asks for it to be hidden in this
// session, anything else is a tool failure.
func runTool(ctx context.Context, tool Tool, view *action.View, timeout time.Duration) action.Result {
	desc, ok := view.Current()
	if !ok {
		return action.Failuref(action.KindNotFound, "no current resource for tool %s", tool.Suffix)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, tool.Path)
	cmd.Env = toolEnv(tool, view, desc)
	output, err := cmd.CombinedOutput()

	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return action.Failure(action.WrapError(action.KindExternalTool, err,
				"tool %s failed to run", tool.Suffix))
		}
		exitCode = exitErr.ExitCode()
	}

	switch exitCode {
	case 0:
		return action.Success().
			WithMessage("tool %s completed", tool.Suffix).
			WithData("output", strings.TrimSpace(string(output)))
	case 1:
		// The tool asked for this resource to be dropped from the
		// session. Hide it and move to the next visible one.
		current := view.CurrentIndex
		shadow := *view
		shadow.Hidden = make(map[int]bool, len(view.Hidden)+1)
		for k := range view.Hidden {
			shadow.Hidden[k] = true
		}
		shadow.Hidden[current] = true

		patch, moved := advancePatch(&shadow, 1)
		if !moved {
			patch = &action.StatePatch{}
		}
		patch.Hide = &current
		patch.ResetTimer = true

		return action.Success().
			WithMessage("tool %s removed resource %d", tool.Suffix, current).
			WithData("removed_index", current).
			WithPatch(patch)
	default:
		return action.Failuref(action.KindExternalTool,
			"tool %s exited with code %d: %s", tool.Suffix, exitCode,
			strings.TrimSpace(string(output)))
	}
}
