package argocd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func applicationObject(sync, health string, conditions []map[string]any) *unstructured.Unstructured {
	status := map[string]any{}
	if sync != "" {
		status["sync"] = map[string]any{"status": sync}
	}
	if health != "" {
		status["health"] = map[string]any{"status": health}
	}
	if conditions != nil {
		raw := make([]any, len(conditions))
		for i, c := range conditions {
			raw[i] = c
		}
		status["conditions"] = raw
	}

	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "argoproj.io/v1alpha1",
		"kind":       "Application",
		"metadata":   map[string]any{"name": "platform", "namespace": "argocd"},
		"status":     status,
	}}
}

func TestParseApplication(t *testing.T) {
	state := ParseApplication(applicationObject("Synced", "Healthy", nil))

	assert.Equal(t, SyncSynced, state.Sync)
	assert.Equal(t, HealthHealthy, state.Health)
	assert.Empty(t, state.Conditions)
}

func TestParseApplicationMissingStatus(t *testing.T) {
	obj := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "argoproj.io/v1alpha1",
		"kind":       "Application",
		"metadata":   map[string]any{"name": "platform", "namespace": "argocd"},
	}}

	state := ParseApplication(obj)

	assert.Equal(t, SyncUnknown, state.Sync)
	assert.Equal(t, HealthUnknown, state.Health)
}

func TestParseApplicationConditions(t *testing.T) {
	state := ParseApplication(applicationObject("OutOfSync", "Progressing", []map[string]any{
		{"type": "ComparisonError", "message": "repository not accessible"},
		{"type": "SharedResourceWarning", "message": "resource is managed twice"},
	}))

	require.Len(t, state.Conditions, 2)
	assert.Equal(t, "ComparisonError", state.Conditions[0].Type)
	assert.Equal(t, "repository not accessible", state.Conditions[0].Message)
}

func TestFatalConditions(t *testing.T) {
	state := &AppState{Conditions: []Condition{
		{Type: "SharedResourceWarning", Message: "benign"},
		{Type: "InvalidSpecError", Message: "application spec is invalid"},
		{Type: "SyncError", Message: "sync hook failed"},
	}}

	fatal := state.FatalConditions()

	require.Len(t, fatal, 2)
	assert.Equal(t, "InvalidSpecError", fatal[0].Type)
	assert.Equal(t, "SyncError", fatal[1].Type)
}

func TestFatalConditionsNone(t *testing.T) {
	state := &AppState{Conditions: []Condition{
		{Type: "SharedResourceWarning", Message: "benign"},
	}}

	assert.Empty(t, state.FatalConditions())
}

func TestTerminalErrorIncludesConditions(t *testing.T) {
	err := &TerminalError{
		Ref:    AppRef{Name: "platform", Namespace: "argocd"},
		Reason: "health degraded",
		Conditions: []Condition{
			{Type: "SyncError", Message: "hook job failed"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "argocd/platform")
	assert.Contains(t, msg, "health degraded")
	assert.Contains(t, msg, "SyncError: hook job failed")
}
