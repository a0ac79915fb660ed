// Package helm renders Helm charts to plain Kubernetes manifests.
// Charts are downloaded at runtime from their repositories and rendered
// with the Helm template engine; nothing is installed through Helm's
// release machinery, the manifests are applied server-side by the
// caller.
package helm
