package rollout

// Exit codes form a flat, stable taxonomy of rollout failure classes.
// Scripts wrapping argoboot branch on these; renumbering is a breaking
// change.
const (
	// ExitMissingDependency: a required tool (minikube) is not installed.
	ExitMissingDependency = 10
	// ExitMissingCredential: the repository token variable is unset or empty.
	ExitMissingCredential = 11
	// ExitInvalidCredential: the repository token has an invalid format.
	ExitInvalidCredential = 12
	// ExitClusterCreate: creating the cluster failed.
	ExitClusterCreate = 13
	// ExitClusterStart: starting an existing stopped cluster failed.
	ExitClusterStart = 14
	// ExitClusterReadiness: the API server never became reachable.
	ExitClusterReadiness = 15
	// ExitControllerInstall: rendering or applying the controller failed.
	ExitControllerInstall = 16
	// ExitControllerReadiness: the controller deployments never became available.
	ExitControllerReadiness = 17
	// ExitSecretCreation: provisioning a credential secret failed.
	ExitSecretCreation = 18
	// ExitResourceApplication: applying the root application failed.
	ExitResourceApplication = 19
	// ExitWaveSync: a wave never reached Synced, or hit a terminal sync condition.
	ExitWaveSync = 20
	// ExitWaveHealth: a wave never reached Healthy, or degraded.
	ExitWaveHealth = 21
	// ExitVerification: a post-wave verification probe failed.
	ExitVerification = 22
)
