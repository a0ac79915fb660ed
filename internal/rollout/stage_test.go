package rollout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/argoboot/internal/config"
)

func TestStageOrdering(t *testing.T) {
	assert.Less(t, StageInit, StageClusterReady)
	assert.Less(t, StageClusterReady, StageControllerInstalled)
	assert.Less(t, StageControllerInstalled, StageSecretProvisioned)
	assert.Less(t, StageSecretProvisioned, StageRootApplied)
	assert.Less(t, StageRootApplied, WaveStage(0))
	assert.Less(t, WaveStage(0), WaveStage(1))
	assert.Less(t, WaveStage(config.MaxWaves-1), StageVerified)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "init", StageInit.String())
	assert.Equal(t, "cluster-ready", StageClusterReady.String())
	assert.Equal(t, "wave-0", WaveStage(0).String())
	assert.Equal(t, "wave-7", WaveStage(7).String())
	assert.Equal(t, "verified", StageVerified.String())
}

func TestWaveStageRoundTrip(t *testing.T) {
	for _, i := range []int{0, 1, 5, config.MaxWaves - 1} {
		stage := WaveStage(i)
		assert.True(t, stage.IsWave())
		assert.Equal(t, i, stage.WaveIndex())
	}
	assert.False(t, StageRootApplied.IsWave())
	assert.False(t, StageVerified.IsWave())
}

func TestWaveStagePanicsOutOfRange(t *testing.T) {
	assert.Panics(t, func() { WaveStage(-1) })
	assert.Panics(t, func() { WaveStage(config.MaxWaves) })
}

func TestTrackerAdvance(t *testing.T) {
	tracker := NewTracker()
	assert.Equal(t, StageInit, tracker.Current())

	require.NoError(t, tracker.Advance(StageClusterReady))
	require.NoError(t, tracker.Advance(StageControllerInstalled))
	assert.Equal(t, StageControllerInstalled, tracker.Current())
}

func TestTrackerRejectsNonAdvancement(t *testing.T) {
	tracker := NewTracker()
	require.NoError(t, tracker.Advance(StageSecretProvisioned))

	assert.Error(t, tracker.Advance(StageSecretProvisioned), "same stage is not an advancement")
	assert.Error(t, tracker.Advance(StageClusterReady), "going backwards is rejected")
	assert.Equal(t, StageSecretProvisioned, tracker.Current(), "rejected advances leave the stage untouched")
}

func TestTrackerCanSkipStages(t *testing.T) {
	tracker := NewTracker()
	require.NoError(t, tracker.Advance(WaveStage(3)), "skipping forward is allowed, only regression is not")
	assert.Equal(t, WaveStage(3), tracker.Current())
}
