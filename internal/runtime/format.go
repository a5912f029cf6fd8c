package runtime

import (
	"fmt"
	"strings"

	"github.com/douglas-run/douglas/pkg/domain"
)

// Format normalizes a heterogeneous execution result into the
// caller-facing display shape.
//
// Shell mode: the trimmed stdout; a non-zero exit or timeout appends an
// error marker with the exit status and any stderr. LLM mode: compact
// JSON for structured payloads, the raw reply otherwise.
func Format(result *domain.ExecutionResult) domain.DisplayOutput {
	out := domain.DisplayOutput{
		PersistedID: result.PersistedID,
		Warning:     result.PersistWarning,
	}

	switch result.Mode {
	case domain.ModeShell:
		out.Text = strings.TrimSpace(result.Stdout)
		if result.Errored() {
			out.Text = annotateShellError(out.Text, result)
		}
	default:
		serialized, err := result.Payload.Serialized()
		if err != nil {
			// Marshal of an already-decoded JSON value cannot
			// realistically fail; fall back to the raw reply.
			serialized = result.Payload.Raw
		}
		out.Text = serialized
	}

	return out
}

func annotateShellError(text string, result *domain.ExecutionResult) string {
	var marker string
	if result.TimedOut {
		marker = "[error: command timed out]"
	} else {
		marker = fmt.Sprintf("[error: exit status %d]", result.ExitCode)
	}
	if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
		marker += " " + stderr
	}
	if text == "" {
		return marker
	}
	return text + "\n" + marker
}
