package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/ersim/sim/emergency"
)

// loadConfig reads a YAML scenario file on top of emergency.DefaultConfig.
// Unknown keys are errors so that typos cannot silently fall back to defaults.
// A stage whose service params appear in the file gets exactly those params.
func loadConfig(path string) (emergency.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return emergency.Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (emergency.Config, error) {
	// The first pass sees only what the file sets, so params maps are not
	// merged with the defaults' maps by the second pass.
	var fromFile emergency.Config
	if err := strictDecode(data, &fromFile); err != nil {
		return emergency.Config{}, err
	}

	cfg := emergency.DefaultConfig()
	if err := strictDecode(data, &cfg); err != nil {
		return emergency.Config{}, err
	}
	overrides := stageConfigs(&fromFile.Stages)
	for i, sc := range stageConfigs(&cfg.Stages) {
		if overrides[i].Service.Params != nil {
			sc.Service.Params = overrides[i].Service.Params
		}
	}
	return cfg, nil
}

func strictDecode(data []byte, out *emergency.Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("parse config YAML: %w", err)
	}
	return nil
}

func stageConfigs(s *emergency.StagesConfig) []*emergency.StageConfig {
	return []*emergency.StageConfig{
		&s.Registration, &s.Triage, &s.Consult, &s.Imaging, &s.Lab, &s.FollowUp, &s.Treatment,
	}
}

// writeDefaultConfig renders the default scenario as YAML.
func writeDefaultConfig(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(emergency.DefaultConfig()); err != nil {
		return err
	}
	return enc.Close()
}
