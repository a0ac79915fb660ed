// Package config defines the rollout configuration model.
//
// Configuration comes from two places: a YAML file (argoboot.yaml by
// default) describing the cluster profile, the Argo CD install, the
// repository credentials, and the ordered sync waves; and environment
// variables for operational timeouts (see LoadTimeouts).
package config
