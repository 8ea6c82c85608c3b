package config

const (
	DefaultMaxBytes        = 10 << 20
	DefaultPDFEngine       = "ledongthuc"
	DefaultModel           = "gemini-1.5-flash"
	DefaultTemperature     = 0.7
	DefaultTopK            = 40
	DefaultTopP            = 0.95
	DefaultMaxOutputTokens = 2000
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeoutSeconds == 0 {
		cfg.Server.RequestTimeoutSeconds = 120
	}
	if cfg.Upload.MaxBytes <= 0 {
		cfg.Upload.MaxBytes = DefaultMaxBytes
	}
	if cfg.PDF.Engine == "" {
		cfg.PDF.Engine = DefaultPDFEngine
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultModel
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = DefaultTemperature
	}
	if cfg.LLM.TopK == 0 {
		cfg.LLM.TopK = DefaultTopK
	}
	if cfg.LLM.TopP == 0 {
		cfg.LLM.TopP = DefaultTopP
	}
	if cfg.LLM.MaxOutputTokens == 0 {
		cfg.LLM.MaxOutputTokens = DefaultMaxOutputTokens
	}
}
