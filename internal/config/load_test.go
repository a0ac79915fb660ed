package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
repo:
  url: https://github.com/example/deploy.git
waves:
  - name: wave-0
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "argoboot", cfg.Profile)
	assert.Equal(t, 2, cfg.Cluster.CPUs)
	assert.Equal(t, 4096, cfg.Cluster.MemoryMB)
	assert.Equal(t, "docker", cfg.Cluster.Driver)
	assert.Equal(t, "argocd", cfg.ArgoCD.Namespace)
	assert.Equal(t, "argo-cd", cfg.ArgoCD.Chart)
	assert.Equal(t, "https://argoproj.github.io/argo-helm", cfg.ArgoCD.ChartRepository)
	assert.Equal(t, "git", cfg.Repo.Username)
	assert.Equal(t, "ARGOBOOT_REPO_TOKEN", cfg.Repo.TokenEnv)
	assert.Equal(t, "root", cfg.Root.Name)
	assert.False(t, cfg.Cleanup)
}

func TestLoad_FullConfig(t *testing.T) {
	yaml := `
profile: staging
cluster:
  cpus: 4
  memoryMB: 8192
  driver: kvm2
argocd:
  namespace: gitops
  chartVersion: 7.8.0
repo:
  url: https://github.com/example/deploy.git
  username: deployer
  tokenEnv: DEPLOY_TOKEN
rootApp:
  name: platform-root
  path: clusters/staging
  revision: main
cleanup: true
waves:
  - name: wave-0
    namespace: infra
    syncTimeout: 10m
    healthTimeout: 4m
    probes:
      - type: crd-established
        name: certificates.cert-manager.io
      - type: deployment-available
        name: cert-manager
        namespace: cert-manager
        timeout: 90s
  - name: wave-1
    namespace: apps
    probes:
      - type: daemonset-rolledout
        name: node-agent
        namespace: infra
      - type: endpoints-ready
        name: gateway
        namespace: apps
`
	cfg, err := Load([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Profile)
	assert.Equal(t, 4, cfg.Cluster.CPUs)
	assert.Equal(t, "gitops", cfg.ArgoCD.Namespace)
	assert.True(t, cfg.Cleanup)

	require.Len(t, cfg.Waves, 2)
	wave0 := cfg.Waves[0]
	assert.Equal(t, "wave-0", wave0.Name)
	assert.Equal(t, 10*time.Minute, wave0.SyncTimeout.Std())
	assert.Equal(t, 4*time.Minute, wave0.HealthTimeout.Std())
	require.Len(t, wave0.Probes, 2)
	assert.Equal(t, ProbeCRDEstablished, wave0.Probes[0].Type)
	assert.Equal(t, 90*time.Second, wave0.Probes[1].Timeout.Std())
}

func TestLoad_InvalidDuration(t *testing.T) {
	yaml := `
repo:
  url: https://github.com/example/deploy.git
waves:
  - name: wave-0
    syncTimeout: not-a-duration
`
	_, err := Load([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing repo url",
			yaml:    "waves:\n  - name: wave-0\n",
			wantErr: "repo.url is required",
		},
		{
			name:    "no waves",
			yaml:    "repo:\n  url: https://example.com/r.git\n",
			wantErr: "at least one wave",
		},
		{
			name: "duplicate wave names",
			yaml: `
repo:
  url: https://example.com/r.git
waves:
  - name: wave-0
  - name: wave-0
`,
			wantErr: "duplicate name",
		},
		{
			name: "unknown probe type",
			yaml: `
repo:
  url: https://example.com/r.git
waves:
  - name: wave-0
    probes:
      - type: http-check
        name: x
`,
			wantErr: "unknown probe type",
		},
		{
			name: "probe missing namespace",
			yaml: `
repo:
  url: https://example.com/r.git
waves:
  - name: wave-0
    probes:
      - type: deployment-available
        name: x
`,
			wantErr: "requires name and namespace",
		},
		{
			name: "insufficient memory",
			yaml: `
cluster:
  memoryMB: 512
repo:
  url: https://example.com/r.git
waves:
  - name: wave-0
`,
			wantErr: "memoryMB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_TooManyWaves(t *testing.T) {
	yaml := "repo:\n  url: https://example.com/r.git\nwaves:\n"
	for i := 0; i <= MaxWaves; i++ {
		yaml += fmt.Sprintf("  - name: wave-%d\n", i)
	}
	_, err := Load([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most")
}
