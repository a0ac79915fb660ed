package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/argoboot/internal/argocd"
	"github.com/imamik/argoboot/internal/config"
	"github.com/imamik/argoboot/internal/k8s"
	"github.com/imamik/argoboot/internal/platform/minikube"
	"github.com/imamik/argoboot/internal/rollout"
	"github.com/imamik/argoboot/internal/util/prerequisites"
)

// upFixture holds the mocks wired into a stubbed Up run.
type upFixture struct {
	cfg     *config.Config
	cluster *minikube.MockClient
	k8s     *k8s.MockClient
	apps    *argocd.MockClient

	token      string
	missing    []prerequisites.Tool
	installErr error
}

func testUpConfig() *config.Config {
	return &config.Config{
		Profile: "argoboot-test",
		Cluster: config.ClusterConfig{CPUs: 2, MemoryMB: 4096, Driver: "docker"},
		ArgoCD:  config.ArgoCDConfig{Namespace: "argocd", Chart: "argo-cd"},
		Repo: config.RepoConfig{
			URL:      "https://example.com/org/gitops.git",
			Username: "git",
			TokenEnv: "ARGOBOOT_REPO_TOKEN",
		},
		Root:    config.RootAppConfig{Name: "root", Path: "bootstrap", Revision: "main"},
		Waves:   []config.WaveConfig{{Name: "platform"}, {Name: "apps"}},
		Cleanup: true,
	}
}

func newUpFixture() *upFixture {
	return &upFixture{
		cfg:     testUpConfig(),
		cluster: &minikube.MockClient{},
		k8s: &k8s.MockClient{
			GetSecretFieldFunc: func(_ context.Context, _, _, _ string) ([]byte, bool, error) {
				return []byte("hunter2"), true, nil
			},
		},
		apps:  &argocd.MockClient{},
		token: "ghp_0123456789abcdef",
	}
}

// stubFactories swaps all factory variables for the fixture's mocks and
// restores them when the test finishes.
func stubFactories(t *testing.T, f *upFixture) {
	t.Helper()

	origLoad := loadConfigFile
	origFind := findConfigFile
	origPrereqs := checkDefaultPrereqs
	origCluster := newClusterManager
	origContext := newRolloutContext
	origGetenv := getenv
	t.Cleanup(func() {
		loadConfigFile = origLoad
		findConfigFile = origFind
		checkDefaultPrereqs = origPrereqs
		newClusterManager = origCluster
		newRolloutContext = origContext
		getenv = origGetenv
	})

	loadConfigFile = func(_ string) (*config.Config, error) { return f.cfg, nil }
	findConfigFile = func() (string, error) { return "argoboot.yaml", nil }
	checkDefaultPrereqs = func() *prerequisites.CheckResults {
		return &prerequisites.CheckResults{Missing: f.missing}
	}
	newClusterManager = func() minikube.Manager { return f.cluster }
	getenv = func(_ string) string { return f.token }

	newRolloutContext = func(ctx context.Context, cfg *config.Config, cluster minikube.Manager) *rollout.Context {
		rctx := rollout.NewContext(ctx, cfg, cluster)
		rctx.ConnectK8s = func(_ string) (k8s.Interface, argocd.Client, error) {
			return f.k8s, f.apps, nil
		}
		rctx.InstallController = func(_ context.Context, _ k8s.Interface, _ argocd.InstallOptions) error {
			return f.installErr
		}
		return rctx
	}
}

func TestUpHappyPath(t *testing.T) {
	f := newUpFixture()
	stubFactories(t, f)

	err := Up(context.Background(), UpOptions{})
	require.NoError(t, err)

	assert.Contains(t, f.k8s.Calls, "CreateSecret")
	assert.Contains(t, f.k8s.Calls, "ApplyManifests")
	assert.NotContains(t, f.cluster.Calls, "delete", "nothing to clean up on success")
}

func TestUpMissingTool(t *testing.T) {
	f := newUpFixture()
	f.missing = []prerequisites.Tool{{
		Name:       "minikube",
		Required:   true,
		InstallURL: "https://minikube.sigs.k8s.io/docs/start/",
	}}
	stubFactories(t, f)

	err := Up(context.Background(), UpOptions{})
	require.Error(t, err)
	assert.Equal(t, rollout.ExitMissingDependency, rollout.ExitCode(err))
	assert.Contains(t, err.Error(), "minikube")
}

func TestUpMissingToken(t *testing.T) {
	f := newUpFixture()
	f.token = ""
	stubFactories(t, f)

	err := Up(context.Background(), UpOptions{})
	require.Error(t, err)
	assert.Equal(t, rollout.ExitMissingCredential, rollout.ExitCode(err))
	assert.Contains(t, err.Error(), "ARGOBOOT_REPO_TOKEN", "error must name the variable to set")
}

func TestUpInvalidToken(t *testing.T) {
	f := newUpFixture()
	f.token = "oops token"
	stubFactories(t, f)

	err := Up(context.Background(), UpOptions{})
	require.Error(t, err)
	assert.Equal(t, rollout.ExitInvalidCredential, rollout.ExitCode(err))
}

func TestUpSkipTokenValidation(t *testing.T) {
	f := newUpFixture()
	f.token = "x"
	f.cfg.Repo.SkipTokenValidation = true
	stubFactories(t, f)

	err := Up(context.Background(), UpOptions{})
	require.NoError(t, err)
}

func TestUpConfigNotFound(t *testing.T) {
	f := newUpFixture()
	stubFactories(t, f)
	findConfigFile = func() (string, error) { return "", errors.New("argoboot.yaml not found in current directory") }

	err := Up(context.Background(), UpOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config file found")
	assert.Equal(t, 1, rollout.ExitCode(err), "config errors have no rollout exit code")
}

func TestUpCleanupRunsOnFailure(t *testing.T) {
	f := newUpFixture()
	f.installErr = errors.New("render failed")
	stubFactories(t, f)

	err := Up(context.Background(), UpOptions{})
	require.Error(t, err)
	assert.Equal(t, rollout.ExitControllerInstall, rollout.ExitCode(err))

	// The cluster was healthy before the install failed; its deletion
	// is gated behind a confirmation, which cannot be answered here
	// (no TTY), so the cluster survives while the partially installed
	// resources are removed.
	assert.NotContains(t, f.cluster.Calls, "delete")
	require.NotEmpty(t, f.apps.Deleted)
	assert.Equal(t, "root", f.apps.Deleted[0].Name)
}

func TestUpClusterCreateFailureDeletesCluster(t *testing.T) {
	f := newUpFixture()
	f.cluster.StatusFunc = func(_ context.Context, _ string) (minikube.Status, error) {
		return minikube.StatusAbsent, nil
	}
	f.cluster.CreateFunc = func(_ context.Context, _ string, _ minikube.CreateOpts) error {
		return errors.New("driver not available")
	}
	stubFactories(t, f)

	err := Up(context.Background(), UpOptions{})
	require.Error(t, err)
	assert.Equal(t, rollout.ExitClusterCreate, rollout.ExitCode(err))

	// Nothing worth keeping after a provisioning failure: the cluster
	// is deleted without a prompt.
	assert.Contains(t, f.cluster.Calls, "delete")
}

func TestUpCleanupFlagOverridesConfig(t *testing.T) {
	f := newUpFixture()
	f.installErr = errors.New("render failed")
	stubFactories(t, f)

	disabled := false
	err := Up(context.Background(), UpOptions{Cleanup: &disabled})
	require.Error(t, err)
	assert.NotContains(t, f.cluster.Calls, "delete")
}

func TestValidateTokenFormat(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"classic token", "ghp_0123456789abcdef", false},
		{"fine grained token", "github_pat_11AAAAAAA0aaaaaaaaaaaa", false},
		{"too short", "abc", true},
		{"embedded space", "ghp_01234 56789", true},
		{"embedded newline", "ghp_0123456789\n", true},
		{"tab prefix", "\tghp_0123456789", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTokenFormat(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
