package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.AnalyticsDBPath == "" {
		cfg.Storage.AnalyticsDBPath = "/usr/local/var/shirabe/data/analytics.db"
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.HistorySize == 0 {
		cfg.Search.HistorySize = 100
	}
	if cfg.Search.VectorDimensions == 0 {
		cfg.Search.VectorDimensions = 100
	}
}
