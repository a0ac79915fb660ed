// Package argocd reads and drives Argo CD Application resources.
//
// It decodes sync and health status from the unstructured Application
// object at the client boundary, classifies terminal error conditions,
// and provides the bounded waits used to gate rollout waves. It also
// renders and applies the Argo CD chart itself and provisions the
// repository credential secret.
package argocd
