package config

const (
	defaultDataDir              = "~/.local/share/labeldesk"
	defaultLogDir               = "~/.local/share/labeldesk/logs"
	defaultAPIBind              = "127.0.0.1:7511"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultValidateInterval     = 30
	defaultShutdownGraceSeconds = 10
	defaultNotifyTimeout        = 10
	defaultDistributorTimeout   = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Workflow: Workflow{
			ValidateInterval:     defaultValidateInterval,
			ShutdownGraceSeconds: defaultShutdownGraceSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Stages:         true,
			Tasks:          true,
			Errors:         true,
		},
		Distributor: Distributor{
			TimeoutSeconds: defaultDistributorTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
