package argocd

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// AppRef identifies an Argo CD Application. Immutable.
type AppRef struct {
	Name      string
	Namespace string
}

// String returns namespace/name.
func (r AppRef) String() string {
	return r.Namespace + "/" + r.Name
}

// SyncStatus is the Application's sync comparison state.
type SyncStatus string

const (
	SyncSynced    SyncStatus = "Synced"
	SyncOutOfSync SyncStatus = "OutOfSync"
	SyncUnknown   SyncStatus = "Unknown"
)

// HealthStatus is the Application's aggregated health state.
type HealthStatus string

const (
	HealthHealthy     HealthStatus = "Healthy"
	HealthProgressing HealthStatus = "Progressing"
	HealthDegraded    HealthStatus = "Degraded"
	HealthMissing     HealthStatus = "Missing"
	HealthSuspended   HealthStatus = "Suspended"
	HealthUnknown     HealthStatus = "Unknown"
)

// Condition is one entry of the Application's status.conditions, kept
// as an opaque diagnostic payload.
type Condition struct {
	Type    string
	Message string
}

// AppState is the decoded rollout-relevant slice of an Application's
// status.
type AppState struct {
	Sync       SyncStatus
	Health     HealthStatus
	Conditions []Condition
}

// fatalConditionTypes are condition types that will not self-resolve;
// waiting out the sync timeout on them is pointless.
var fatalConditionTypes = map[string]bool{
	"ComparisonError":  true,
	"InvalidSpecError": true,
	"SyncError":        true,
	"UnknownError":     true,
}

// FatalConditions returns the subset of conditions that make further
// waiting pointless.
func (s *AppState) FatalConditions() []Condition {
	var fatal []Condition
	for _, c := range s.Conditions {
		if fatalConditionTypes[c.Type] {
			fatal = append(fatal, c)
		}
	}
	return fatal
}

// ParseApplication decodes an unstructured Argo CD Application into an
// AppState. Absent status fields decode to the Unknown states.
func ParseApplication(obj *unstructured.Unstructured) *AppState {
	state := &AppState{
		Sync:   SyncUnknown,
		Health: HealthUnknown,
	}

	if sync, found, _ := unstructured.NestedString(obj.Object, "status", "sync", "status"); found && sync != "" {
		state.Sync = SyncStatus(sync)
	}
	if health, found, _ := unstructured.NestedString(obj.Object, "status", "health", "status"); found && health != "" {
		state.Health = HealthStatus(health)
	}

	conditions, found, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")
	if !found {
		return state
	}
	for _, raw := range conditions {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		condition := Condition{}
		if t, ok := entry["type"].(string); ok {
			condition.Type = t
		}
		if m, ok := entry["message"].(string); ok {
			condition.Message = m
		}
		state.Conditions = append(state.Conditions, condition)
	}

	return state
}

// TerminalError reports an application state that cannot self-resolve.
// The conditions are carried verbatim for the failure report.
type TerminalError struct {
	Ref        AppRef
	Reason     string
	Conditions []Condition
}

func (e *TerminalError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "application %s: %s", e.Ref, e.Reason)
	for _, c := range e.Conditions {
		fmt.Fprintf(&b, "\n  %s: %s", c.Type, c.Message)
	}
	return b.String()
}
