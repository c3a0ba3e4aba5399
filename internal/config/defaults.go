package config

import "quill/internal/media"

const (
	defaultBaseURL              = "http://127.0.0.1:8000"
	defaultRequestTimeout       = 30
	defaultStagingDir           = "~/.local/share/quill/staging"
	defaultLogDir               = "~/.local/share/quill/logs"
	defaultDraftsDir            = "~/.local/share/quill/drafts"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultNotifyRequestTimeout = 10
	defaultStaleStagingHours    = 24
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			DraftsDir:  defaultDraftsDir,
		},
		Attachments: Attachments{
			MaxImages:         media.DefaultMaxImages,
			MaxFiles:          media.DefaultMaxFiles,
			StaleStagingHours: defaultStaleStagingHours,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Published:      true,
			Updated:        true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
