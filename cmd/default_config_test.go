package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/ersim/sim/emergency"
)

func TestParseConfig_PartialFileOverlaysDefaults(t *testing.T) {
	// GIVEN a file that only changes doctors and the horizon
	doc := `
horizon_hours: 24
resources:
  doctors: 6
`
	// WHEN parsed
	cfg, err := parseConfig([]byte(doc))
	require.NoError(t, err)

	// THEN those fields change and everything else keeps its default
	want := emergency.DefaultConfig()
	want.HorizonHours = 24
	want.Resources.Doctors = 6
	assert.Equal(t, want, cfg)
}

func TestParseConfig_StageParamsReplaceDefaults(t *testing.T) {
	doc := `
stages:
  lab:
    service:
      type: exponential
      params: {mean: 40}
`
	cfg, err := parseConfig([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "exponential", cfg.Stages.Lab.Service.Type)
	assert.Equal(t, map[string]float64{"mean": 40}, cfg.Stages.Lab.Service.Params,
		"default uniform min/max must not leak into the new distribution")
	assert.Equal(t, emergency.DefaultConfig().Stages.Triage, cfg.Stages.Triage)
	assert.NoError(t, cfg.Validate())
}

func TestParseConfig_UnknownField_Rejected(t *testing.T) {
	// GIVEN a typo in a resource name
	doc := `
resources:
  doctor: 4
`
	_, err := parseConfig([]byte(doc))
	assert.Error(t, err, "strict decoding must reject unknown keys")
}

func TestParseConfig_EmptyFile_IsDefault(t *testing.T) {
	cfg, err := parseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, emergency.DefaultConfig(), cfg)
}

func TestWriteDefaultConfig_ParsesBackToDefaults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDefaultConfig(&buf))

	cfg, err := parseConfig(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, emergency.DefaultConfig(), cfg)
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "er.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 7\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
