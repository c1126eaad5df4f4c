package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeZeroFieldsFallBackToDefaults(t *testing.T) {
	c := Sanitize(RSNConfig{})
	assert.Equal(t, uint16(DefaultSleepSeconds), c.SleepSeconds)
	assert.Equal(t, uint16(DefaultPowerUpMs), c.PowerUpMs)
	assert.Equal(t, uint16(DefaultSettleMs), c.SettleMs)
	assert.Equal(t, uint16(DefaultSampleIntervalMs), c.SampleIntervalMs)
	assert.Equal(t, uint8(DefaultLostRXLimit), c.LostRXLimit)
}

func TestSanitizeClampsSleepSecondsCeiling(t *testing.T) {
	c := Sanitize(RSNConfig{SleepSeconds: 65000})
	assert.Equal(t, uint16(MaxSleepSeconds), c.SleepSeconds)
}

func TestSanitizeLeavesInRangeValuesAlone(t *testing.T) {
	c := Sanitize(RSNConfig{SleepSeconds: 30, PowerUpMs: 200, SettleMs: 300, SampleIntervalMs: 75, LostRXLimit: 5})
	assert.Equal(t, uint16(30), c.SleepSeconds)
	assert.Equal(t, uint16(200), c.PowerUpMs)
	assert.Equal(t, uint16(300), c.SettleMs)
	assert.Equal(t, uint16(75), c.SampleIntervalMs)
	assert.Equal(t, uint8(5), c.LostRXLimit)
}

func TestMemoryBackendLoadSaveRoundTrip(t *testing.T) {
	b := NewMemoryBackend()
	want := Status{NodeID: 7, ConfigValid: true, CycleCount: 3}
	require.NoError(t, b.SaveStatus(want))
	got, err := b.LoadStatus()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMemoryBackendLoadConfigSanitizes(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.SaveConfig(RSNConfig{SleepSeconds: 0}))
	got, err := b.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, uint16(DefaultSleepSeconds), got.SleepSeconds)
}

func TestFileBackendMissingFileLoadsDefaults(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBackend(filepath.Join(dir, "state.yaml"))
	status, err := b.LoadStatus()
	require.NoError(t, err)
	assert.Zero(t, status)

	cfg, err := b.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, uint16(DefaultSleepSeconds), cfg.SleepSeconds)
}

func TestFileBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yaml")
	b := NewFileBackend(path)

	wantStatus := Status{NodeID: 4, ConfigValid: true, WaitingConfig: false}
	require.NoError(t, b.SaveStatus(wantStatus))
	wantConfig := RSNConfig{SleepSeconds: 60, PowerUpMs: 100, SettleMs: 150, SampleIntervalMs: 50, LostRXLimit: 3}
	require.NoError(t, b.SaveConfig(wantConfig))

	// A fresh backend pointed at the same file sees the persisted values.
	reopened := NewFileBackend(path)
	gotStatus, err := reopened.LoadStatus()
	require.NoError(t, err)
	assert.Equal(t, wantStatus, gotStatus)

	gotConfig, err := reopened.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, wantConfig, gotConfig)
}

func TestNodeConfigKeyFormat(t *testing.T) {
	assert.Equal(t, "cfg00", NodeConfigKey(0))
	assert.Equal(t, "cfg07", NodeConfigKey(7))
	assert.Equal(t, "cfg42", NodeConfigKey(42))
}

func TestNodeConfigStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewNodeConfigStore(filepath.Join(dir, "nodecfg.yaml"))

	_, ok := s.Load(7)
	assert.False(t, ok)

	want := RSNConfig{SleepSeconds: 45, LostRXLimit: 2}
	require.NoError(t, s.Save(7, want))

	got, ok := s.Load(7)
	require.True(t, ok)
	assert.Equal(t, want, got)
}
