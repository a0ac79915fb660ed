// Package minikube wraps the minikube binary behind a narrow cluster
// lifecycle interface.
//
// minikube ships no Go SDK, so the client shells out and parses the
// JSON status output. The [Manager] interface keeps the orchestrator
// and cleanup controller testable with [MockClient].
package minikube
