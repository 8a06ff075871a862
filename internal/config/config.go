// Package config holds tiller configuration: the engine's tunable
// thresholds, the gate's unresolved-role policy, classifier credentials, and
// logging. Everything else about the decision core (weights, ladders, copy
// tables) is compile-time constant on purpose.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvAPIKey overrides classifier.api_key so credentials can stay out of the
// config file.
const EnvAPIKey = "TILLER_GENAI_API_KEY"

// Config is the root configuration.
type Config struct {
	Engine     EngineConfig     `yaml:"engine"`
	Gate       GateConfig       `yaml:"gate"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// EngineConfig tunes the priority engine's two thresholds.
type EngineConfig struct {
	// OpenLoopThreshold is how many open loops accumulate before loop
	// closing fires.
	OpenLoopThreshold int `yaml:"open_loop_threshold"`

	// BreakAfterMinutes is how much daily focus time earns a break
	// suggestion.
	BreakAfterMinutes int `yaml:"break_after_minutes"`
}

// GateConfig configures the execution gate.
type GateConfig struct {
	// UnresolvedRolePolicy is "fail_open" (default) or "fail_closed".
	// Fail-open avoids false rejections while the role loads, at the cost of
	// a race window; fail-closed blocks until the role is confirmed.
	UnresolvedRolePolicy string `yaml:"unresolved_role_policy"`
}

// ClassifierConfig configures the dimension labeler.
type ClassifierConfig struct {
	Provider string `yaml:"provider"` // heuristic, genai
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			OpenLoopThreshold: 3,
			BreakAfterMinutes: 90,
		},
		Gate: GateConfig{
			UnresolvedRolePolicy: "fail_open",
		},
		Classifier: ClassifierConfig{
			Provider: "heuristic",
			Model:    "gemini-2.0-flash",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a config file and merges it over defaults. A missing file is
// not an error; the defaults simply apply. Environment overrides are
// applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, cfg.Validate()
		}
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.Classifier.APIKey = key
	}
}

// Validate checks invariants the rest of the system relies on.
func (c Config) Validate() error {
	if c.Engine.OpenLoopThreshold < 0 {
		return fmt.Errorf("engine.open_loop_threshold must not be negative, got %d", c.Engine.OpenLoopThreshold)
	}
	if c.Engine.BreakAfterMinutes < 0 {
		return fmt.Errorf("engine.break_after_minutes must not be negative, got %d", c.Engine.BreakAfterMinutes)
	}
	switch c.Gate.UnresolvedRolePolicy {
	case "", "fail_open", "fail_closed":
	default:
		return fmt.Errorf("gate.unresolved_role_policy must be fail_open or fail_closed, got %q", c.Gate.UnresolvedRolePolicy)
	}
	switch c.Classifier.Provider {
	case "", "heuristic", "genai":
	default:
		return fmt.Errorf("classifier.provider must be heuristic or genai, got %q", c.Classifier.Provider)
	}
	if c.Classifier.Provider == "genai" && c.Classifier.APIKey == "" {
		return fmt.Errorf("classifier.provider genai requires an api key (set %s)", EnvAPIKey)
	}
	return nil
}
