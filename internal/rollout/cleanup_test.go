package rollout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/argoboot/internal/argocd"
)

func cleanupHarness(cleanup bool, stage Stage) (*harness, *Cleaner) {
	cfg := testConfig()
	cfg.Cleanup = cleanup

	h := newHarness(cfg)
	h.ctx.K8s = h.k8s
	h.ctx.Apps = h.apps
	if stage > StageInit {
		_ = h.ctx.Tracker.Advance(stage)
	}

	waves := []WaveSpec{
		{App: argocd.AppRef{Name: "platform", Namespace: "argocd"}, Namespace: "platform-system"},
		{App: argocd.AppRef{Name: "apps", Namespace: "argocd"}, Namespace: "apps"},
	}

	cleaner := NewCleaner(h.ctx, waves)
	cleaner.confirm = func(title string) bool { return false }
	return h, cleaner
}

func failureAt(stage Stage, code int) error {
	return &Error{Stage: stage, Code: code, Err: errors.New("boom")}
}

func TestCleanupDisabledDeletesNothing(t *testing.T) {
	h, cleaner := cleanupHarness(false, WaveStage(0))

	cleaner.Run(failureAt(WaveStage(1), ExitWaveSync))

	assert.Empty(t, h.apps.Deleted)
	assert.NotContains(t, h.k8s.Calls, "DeleteNamespace")
	assert.NotContains(t, h.cluster.Calls, "delete")

	joined := strings.Join(h.obs.lines, "\n")
	assert.Contains(t, joined, "minikube delete", "manual instructions must name the cluster teardown")
}

func TestCleanupDuringProvisioningDeletesClusterOnly(t *testing.T) {
	h, cleaner := cleanupHarness(true, StageInit)

	cleaner.Run(failureAt(StageClusterReady, ExitClusterCreate))

	assert.Contains(t, h.cluster.Calls, "delete", "cluster is deleted unconditionally before controller install")
	assert.Empty(t, h.apps.Deleted)
	assert.NotContains(t, h.k8s.Calls, "DeleteNamespace")
}

func TestCleanupAfterControllerInstallScopesToResources(t *testing.T) {
	h, cleaner := cleanupHarness(true, WaveStage(0))

	cleaner.Run(failureAt(WaveStage(1), ExitWaveHealth))

	// Root app first, then the waves.
	require.Len(t, h.apps.Deleted, 3)
	assert.Equal(t, "root", h.apps.Deleted[0].Name)
	assert.Equal(t, "platform", h.apps.Deleted[1].Name)
	assert.Equal(t, "apps", h.apps.Deleted[2].Name)

	assert.Contains(t, h.k8s.Calls, "DeleteNamespace")
	assert.NotContains(t, h.cluster.Calls, "delete", "cluster deletion is gated on confirmation")
}

func TestCleanupInstallFailureGatesClusterDeletion(t *testing.T) {
	h, cleaner := cleanupHarness(true, StageClusterReady)
	var confirmAsked bool
	cleaner.confirm = func(title string) bool {
		confirmAsked = true
		return false
	}

	cleaner.Run(failureAt(StageControllerInstalled, ExitControllerInstall))

	// The cluster was healthy before the install failed; deleting it
	// needs an explicit yes.
	assert.True(t, confirmAsked)
	assert.NotContains(t, h.cluster.Calls, "delete")

	require.NotEmpty(t, h.apps.Deleted, "partially installed resources are still removed")
	assert.Equal(t, "root", h.apps.Deleted[0].Name)
}

func TestCleanupRunsAfterRunContextCanceled(t *testing.T) {
	h, cleaner := cleanupHarness(true, WaveStage(0))
	cleaner.confirm = func(title string) bool { return true }

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	h.ctx.Context = canceled

	var appCtxErr, nsCtxErr, clusterCtxErr error
	h.apps.DeleteApplicationFunc = func(ctx context.Context, ref argocd.AppRef, timeout time.Duration) error {
		appCtxErr = ctx.Err()
		return nil
	}
	h.k8s.DeleteNamespaceFunc = func(ctx context.Context, name string, timeout time.Duration) error {
		nsCtxErr = ctx.Err()
		return nil
	}
	h.cluster.DeleteFunc = func(ctx context.Context, profile string) error {
		clusterCtxErr = ctx.Err()
		return nil
	}

	cleaner.Run(failureAt(WaveStage(1), ExitWaveSync))

	require.Len(t, h.apps.Deleted, 3)
	assert.Contains(t, h.k8s.Calls, "DeleteNamespace")
	assert.Contains(t, h.cluster.Calls, "delete")

	// Deletions run on their own context, not the dead run context.
	assert.NoError(t, appCtxErr)
	assert.NoError(t, nsCtxErr)
	assert.NoError(t, clusterCtxErr)
}

func TestCleanupDeletesClusterWhenConfirmed(t *testing.T) {
	h, cleaner := cleanupHarness(true, StageControllerInstalled)
	cleaner.confirm = func(title string) bool { return true }

	cleaner.Run(failureAt(StageSecretProvisioned, ExitSecretCreation))

	assert.Contains(t, h.cluster.Calls, "delete")
}

func TestCleanupDeleteFailuresAreNotEscalated(t *testing.T) {
	h, cleaner := cleanupHarness(true, WaveStage(0))
	h.apps.DeleteApplicationFunc = func(ctx context.Context, ref argocd.AppRef, timeout time.Duration) error {
		return errors.New("conversion webhook unavailable")
	}
	h.k8s.DeleteNamespaceFunc = func(ctx context.Context, name string, timeout time.Duration) error {
		return errors.New("namespace stuck terminating")
	}

	// Must not panic and must keep going through all deletions.
	cleaner.Run(failureAt(WaveStage(1), ExitWaveSync))

	require.Len(t, h.apps.Deleted, 3, "a failed deletion must not stop the remaining ones")

	var deleteFailures int
	for _, event := range h.obs.events {
		if event.Type == EventResourceDeleteFailed {
			deleteFailures++
		}
	}
	assert.Equal(t, 5, deleteFailures, "3 applications + 2 namespaces")
}

func TestCleanupReportsConditions(t *testing.T) {
	h, cleaner := cleanupHarness(false, WaveStage(0))

	cleaner.Run(&Error{
		Stage: WaveStage(1),
		Code:  ExitWaveHealth,
		Err:   errors.New("degraded"),
		Conditions: []argocd.Condition{
			{Type: "SyncError", Message: "hook failed"},
		},
	})

	joined := strings.Join(h.obs.lines, "\n")
	assert.Contains(t, joined, "wave-1")
	assert.Contains(t, joined, "SyncError: hook failed")
}

func TestDestroyRequiresConfirmation(t *testing.T) {
	h, cleaner := cleanupHarness(true, StageInit)

	err := cleaner.Destroy()
	require.Error(t, err)
	assert.NotContains(t, h.cluster.Calls, "delete")

	cleaner.confirm = func(title string) bool { return true }
	require.NoError(t, cleaner.Destroy())
	assert.Contains(t, h.cluster.Calls, "delete")
}
