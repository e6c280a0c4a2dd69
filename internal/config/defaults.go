package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Catalog.Dir == "" {
		cfg.Catalog.Dir = "/usr/local/var/buildbot/data/catalog"
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = "gemini-2.5-flash"
	}
	if cfg.Model.DefaultBudget == 0 {
		cfg.Model.DefaultBudget = 1200
	}
	if cfg.Model.TimeoutSeconds == 0 {
		cfg.Model.TimeoutSeconds = 60
	}
	if cfg.Model.MaxAttempts == 0 {
		// One bounded retry on top of the initial attempt.
		cfg.Model.MaxAttempts = 2
	}
	if cfg.Model.RetryDelayMs == 0 {
		cfg.Model.RetryDelayMs = 500
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 50
	}
	if cfg.Audit.DatabasePath == "" {
		cfg.Audit.DatabasePath = "/usr/local/var/buildbot/data/db/audit.db"
	}
	if cfg.Audit.RawPrefixLen == 0 {
		cfg.Audit.RawPrefixLen = 200
	}
}
