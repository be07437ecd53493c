// Package cfg loads service configuration from a YAML file or environment
// variables, with env vars taking precedence over file values.
package cfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"airsage/internal/common"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	ModelPath      string        // path to the regression artifact
	ModelURL       string        // optional remote inference service; overrides ModelPath
	DataPath       string        // optional directory for the analysis history store
	ListenPort     int           // dashboard HTTP port
	MetricsPort    int           // Prometheus metrics port
	AlertThreshold float64       // default alert threshold, mg/m3
	RequestTimeout time.Duration // timeout for remote inference calls
}

// ConfigFile mirrors the YAML layout.
type ConfigFile struct {
	Model struct {
		Path string `yaml:"path"`
		URL  string `yaml:"url"`
	} `yaml:"model"`

	Alert struct {
		Threshold float64 `yaml:"threshold"`
	} `yaml:"alert"`

	System struct {
		DataPath       string `yaml:"dataPath"`
		ListenPort     int    `yaml:"listenPort"`
		MetricsPort    int    `yaml:"metricsPort"`
		RequestTimeout string `yaml:"requestTimeout"`
	} `yaml:"system"`
}

// Load resolves settings from CONFIG_FILE when set, otherwise from
// environment variables with documented defaults.
func Load() (Settings, error) {
	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	requestTimeout, err := time.ParseDuration(config.System.RequestTimeout)
	if err != nil {
		requestTimeout = 5 * time.Second
	}

	threshold := config.Alert.Threshold
	if threshold == 0 {
		threshold = common.DefaultThreshold
	}

	settings := Settings{
		ModelPath:      getEnvOrDefault(common.EnvModelPath, config.Model.Path),
		ModelURL:       getEnvOrDefault(common.EnvModelURL, config.Model.URL),
		DataPath:       getEnvOrDefault(common.EnvDataPath, config.System.DataPath),
		ListenPort:     getIntFromEnvOrConfig(common.EnvListenPort, config.System.ListenPort, common.DefaultListenPort),
		MetricsPort:    getIntFromEnvOrConfig(common.EnvMetricsPort, config.System.MetricsPort, common.DefaultMetricsPort),
		AlertThreshold: getFloatOrDefault(common.EnvAlertThreshold, threshold),
		RequestTimeout: requestTimeout,
	}
	if settings.ModelPath == "" && settings.ModelURL == "" {
		settings.ModelPath = common.DefaultModelPath
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		ModelPath:      getEnvOrDefault(common.EnvModelPath, common.DefaultModelPath),
		ModelURL:       os.Getenv(common.EnvModelURL),
		DataPath:       os.Getenv(common.EnvDataPath), // optional
		ListenPort:     getIntOrDefault(common.EnvListenPort, common.DefaultListenPort),
		MetricsPort:    getIntOrDefault(common.EnvMetricsPort, common.DefaultMetricsPort),
		AlertThreshold: getFloatOrDefault(common.EnvAlertThreshold, common.DefaultThreshold),
		RequestTimeout: getDurationOrDefault(common.EnvRequestTimeout, 5*time.Second),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

// validateSettings performs validation of configuration values.
func validateSettings(settings *Settings) error {
	if settings.ModelPath == "" && settings.ModelURL == "" {
		return fmt.Errorf("either a model path or a model URL is required")
	}

	if settings.ListenPort < common.MinPort || settings.ListenPort > common.MaxPort {
		return fmt.Errorf("listen port must be between %d and %d, got %d", common.MinPort, common.MaxPort, settings.ListenPort)
	}
	if settings.MetricsPort < common.MinPort || settings.MetricsPort > common.MaxPort {
		return fmt.Errorf("metrics port must be between %d and %d, got %d", common.MinPort, common.MaxPort, settings.MetricsPort)
	}
	if settings.ListenPort == settings.MetricsPort {
		return fmt.Errorf("listen port and metrics port must differ, both are %d", settings.ListenPort)
	}

	if settings.AlertThreshold < common.MinThreshold || settings.AlertThreshold > common.MaxThreshold {
		return fmt.Errorf("alert threshold must be between %.1f and %.1f mg/m3, got %f",
			common.MinThreshold, common.MaxThreshold, settings.AlertThreshold)
	}

	if settings.RequestTimeout < time.Second || settings.RequestTimeout > time.Minute {
		return fmt.Errorf("request timeout must be between 1s and 1m, got %v", settings.RequestTimeout)
	}

	return nil
}
