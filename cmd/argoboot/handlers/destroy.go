package handlers

import (
	"context"

	"github.com/imamik/argoboot/internal/rollout"
)

// destroyer tears down the cluster - matches rollout.Cleaner.
type destroyer interface {
	Destroy() error
}

// newCleaner creates the teardown handler. Replaceable in tests.
var newCleaner = func(rctx *rollout.Context, waves []rollout.WaveSpec) destroyer {
	return rollout.NewCleaner(rctx, waves)
}

// Destroy deletes the bootstrapped cluster behind a confirmation
// prompt. It only needs the profile name, so an invalid token or a
// half-finished rollout never blocks teardown.
func Destroy(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	rctx := newRolloutContext(ctx, cfg, newClusterManager())
	return newCleaner(rctx, nil).Destroy()
}
