package rollout

import (
	"context"

	"github.com/imamik/argoboot/internal/argocd"
	"github.com/imamik/argoboot/internal/config"
	"github.com/imamik/argoboot/internal/k8s"
	"github.com/imamik/argoboot/internal/platform/minikube"
)

// State holds the shared results of rollout stages. It is progressively
// populated as stages complete.
type State struct {
	// RepoToken is the validated repository token, read from the
	// environment by the command layer before the rollout starts.
	RepoToken string

	// AdminPassword is the controller's initial admin password, kept in
	// memory for the process lifetime only.
	AdminPassword []byte
}

// Context wraps all dependencies and state needed by the rollout
// stages. It is owned by the orchestrator and passed by reference.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Cluster  minikube.Manager
	K8s      k8s.Interface
	Apps     argocd.Client
	Observer Observer
	Timeouts *config.Timeouts
	Tracker  *Tracker

	// ConnectK8s builds the cluster clients once the cluster exists.
	// Injected so tests never touch a kubeconfig.
	ConnectK8s func(contextName string) (k8s.Interface, argocd.Client, error)

	// InstallController renders and applies the GitOps controller.
	// Injected so tests never download a chart.
	InstallController func(ctx context.Context, client k8s.Interface, opts argocd.InstallOptions) error
}

// NewContext creates a rollout context with a console observer and
// env-derived timeouts.
func NewContext(ctx context.Context, cfg *config.Config, cluster minikube.Manager) *Context {
	return &Context{
		Context:           ctx,
		Config:            cfg,
		State:             &State{},
		Cluster:           cluster,
		Observer:          NewConsoleObserver(),
		Timeouts:          config.LoadTimeouts(),
		Tracker:           NewTracker(),
		ConnectK8s:        connectK8s,
		InstallController: argocd.Install,
	}
}

func connectK8s(contextName string) (k8s.Interface, argocd.Client, error) {
	client, err := k8s.NewForContext(contextName)
	if err != nil {
		return nil, nil, err
	}
	return client, argocd.NewClient(client.Dynamic()), nil
}
