package config

import (
	"fmt"
	"os"

	"github.com/modguard/guardrail-relay/internal/models"
	"gopkg.in/yaml.v3"
)

func LoadChecksConfig() (*ChecksConfig, error) {

	path := os.Getenv("CHECKS_CONFIG_PATH")
	if path == "" {
		path = "configs/checks.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ChecksConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *ChecksConfig) {
	if cfg.Defaults.AssertionsMode == "" {
		cfg.Defaults.AssertionsMode = "balanced"
	}
	if cfg.Defaults.PolicyTarget == "" {
		cfg.Defaults.PolicyTarget = "both"
	}
	for i := range cfg.Checks {
		if cfg.Checks[i].BlockResponse == "" {
			cfg.Checks[i].BlockResponse = cfg.Defaults.BlockResponse
		}
	}
}

func (c *ChecksConfig) Validate() error {
	for _, check := range c.Checks {
		if _, ok := models.ParseCheckName(check.Name); !ok {
			return fmt.Errorf("unknown check name in config: %s", check.Name)
		}
		switch models.CheckKind(check.Kind) {
		case models.KindPromptInjection:
			// no assertion needed
		case models.KindAssertion:
			if check.Assertion == "" {
				return fmt.Errorf("check %s has kind assertion but no assertion text", check.Name)
			}
		default:
			return fmt.Errorf("check %s has unknown kind: %s", check.Name, check.Kind)
		}
	}
	return nil
}
