package rollout

import (
	"fmt"
	"sync"

	"github.com/imamik/argoboot/internal/config"
)

// Stage is one point in the strictly ordered rollout progression.
// Wave stages occupy a contiguous range so that any configured number
// of waves (up to config.MaxWaves) keeps the ordering total.
type Stage int

const (
	StageInit Stage = iota
	StageClusterReady
	StageControllerInstalled
	StageSecretProvisioned
	StageRootApplied
	stageWaveBase
)

// StageVerified is the terminal stage after all waves verified.
const StageVerified = stageWaveBase + Stage(config.MaxWaves)

// WaveStage returns the stage for the i-th wave (zero-based).
func WaveStage(i int) Stage {
	if i < 0 || i >= config.MaxWaves {
		panic(fmt.Sprintf("wave index %d out of range", i))
	}
	return stageWaveBase + Stage(i)
}

// IsWave reports whether s is a wave stage.
func (s Stage) IsWave() bool {
	return s >= stageWaveBase && s < StageVerified
}

// WaveIndex returns the zero-based wave index. Valid only when IsWave.
func (s Stage) WaveIndex() int {
	return int(s - stageWaveBase)
}

// String returns a stable human-readable stage name.
func (s Stage) String() string {
	switch {
	case s == StageInit:
		return "init"
	case s == StageClusterReady:
		return "cluster-ready"
	case s == StageControllerInstalled:
		return "controller-installed"
	case s == StageSecretProvisioned:
		return "secret-provisioned"
	case s == StageRootApplied:
		return "root-applied"
	case s == StageVerified:
		return "verified"
	case s.IsWave():
		return fmt.Sprintf("wave-%d", s.WaveIndex())
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Tracker records the highest stage reached. Advancement is strictly
// monotonic; attempting to move sideways or backwards is a programming
// error and is surfaced loudly instead of silently accepted.
type Tracker struct {
	mu      sync.Mutex
	current Stage
}

// NewTracker creates a Tracker at StageInit.
func NewTracker() *Tracker {
	return &Tracker{current: StageInit}
}

// Advance moves the tracker to s, which must be strictly later than
// the current stage.
func (t *Tracker) Advance(s Stage) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s <= t.current {
		return fmt.Errorf("stage %s does not advance past %s", s, t.current)
	}
	t.current = s
	return nil
}

// Current returns the highest stage reached.
func (t *Tracker) Current() Stage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}
