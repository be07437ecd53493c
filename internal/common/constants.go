package common

// Environment variable keys
const (
	EnvConfigFile     = "CONFIG_FILE"
	EnvModelPath      = "MODEL_PATH"
	EnvModelURL       = "MODEL_URL"
	EnvDataPath       = "DATA_PATH"
	EnvListenPort     = "LISTEN_PORT"
	EnvMetricsPort    = "METRICS_PORT"
	EnvAlertThreshold = "ALERT_THRESHOLD"
	EnvRequestTimeout = "REQUEST_TIMEOUT"
)

// Configuration defaults
const (
	DefaultModelPath   = "models/air_quality_model.json"
	DefaultListenPort  = 8080
	DefaultMetricsPort = 9090
)

// CO concentration band boundaries in mg/m3. The low band boundary is fixed
// by the air quality guideline; the alert threshold is user-configurable
// within [MinThreshold, MaxThreshold].
const (
	GaugeMin         = 0.0
	GaugeMax         = 15.0
	LowBand          = 4.4
	DefaultThreshold = 9.4
	MinThreshold     = 4.4
	MaxThreshold     = 15.0
)

// Validation constants
const (
	MinPort = 1024
	MaxPort = 65535
)
