package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/douglas-run/douglas/pkg/domain"
)

func TestFormat_ShellOutputTrimmed(t *testing.T) {
	out := Format(&domain.ExecutionResult{
		Mode:   domain.ModeShell,
		Stdout: "hi\n",
	})
	assert.Equal(t, "hi", out.Text)
}

func TestFormat_ShellTimeoutMarker(t *testing.T) {
	out := Format(&domain.ExecutionResult{
		Mode:     domain.ModeShell,
		TimedOut: true,
		ExitCode: -1,
	})
	assert.Contains(t, out.Text, "timed out")
}

func TestFormat_ShellErrorIncludesStderr(t *testing.T) {
	out := Format(&domain.ExecutionResult{
		Mode:     domain.ModeShell,
		Stdout:   "partial\n",
		Stderr:   "no such file\n",
		ExitCode: 1,
	})
	assert.Contains(t, out.Text, "partial")
	assert.Contains(t, out.Text, "[error: exit status 1]")
	assert.Contains(t, out.Text, "no such file")
}

func TestFormat_StructuredPayloadCompactJSON(t *testing.T) {
	out := Format(&domain.ExecutionResult{
		Mode: domain.ModeLLM,
		Payload: domain.Payload{
			Value: map[string]any{"calories": float64(100)},
			Raw:   "{\n  \"calories\": 100\n}",
		},
	})
	assert.JSONEq(t, `{"calories":100}`, out.Text)
}

func TestFormat_RawPayloadPassedThrough(t *testing.T) {
	id := int64(7)
	out := Format(&domain.ExecutionResult{
		Mode:        domain.ModeLLM,
		Payload:     domain.Payload{Raw: "plain reply"},
		PersistedID: &id,
	})
	assert.Equal(t, "plain reply", out.Text)
	assert.Equal(t, int64(7), *out.PersistedID)
}
