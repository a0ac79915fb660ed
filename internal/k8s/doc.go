// Package k8s provides a Kubernetes client wrapper for the rollout.
//
// It combines a typed clientset (secrets, readiness checks), a dynamic
// client with a discovery-backed REST mapper (server-side apply of
// arbitrary manifests, namespace teardown), and boolean readiness
// probes consumed by the wave verification layer.
package k8s
