// Package rollout orchestrates the wave-gated GitOps bootstrap: cluster
// provisioning, controller install, credential provisioning, root
// application apply, then each sync wave strictly in order.
//
// Progress is recorded in a monotonic stage tracker so the cleanup
// controller can scope what it deletes to what was actually touched.
// Every terminal failure is a *Error carrying the failed stage, the
// exit code, and any Argo CD conditions reported at the point of
// failure.
package rollout
