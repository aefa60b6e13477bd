package config

// ChecksConfig is the complete guardrail checks configuration.
type ChecksConfig struct {
	Defaults DefaultsConfig       `yaml:"defaults"`
	Checks   []CheckConfiguration `yaml:"checks"`
}

// DefaultsConfig carries settings shared by every check.
type DefaultsConfig struct {
	AssertionsMode string `yaml:"assertions_mode"`
	PolicyTarget   string `yaml:"policy_target"`
	BlockResponse  string `yaml:"block_response"`
}

// CheckConfiguration defines one guardrail check: how it is evaluated
// upstream and what the caller receives when it flags.
type CheckConfiguration struct {
	Name          string `yaml:"name"`
	Kind          string `yaml:"kind"`
	Enabled       bool   `yaml:"enabled"`
	Description   string `yaml:"description"`
	Assertion     string `yaml:"assertion"`
	BlockResponse string `yaml:"block_response"`
}
