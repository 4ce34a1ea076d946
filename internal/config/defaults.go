package config

// Supported values for enum-like settings.
const (
	TVProviderTMDB = "tmdb"
	TVProviderIMDb = "imdb"

	StampAlways   = "always"
	StampOnNotify = "on_notify"

	BackendDesktop = "desktop"
	BackendNtfy    = "ntfy"
	BackendNone    = "none"
)

// DatabaseFile is the live database filename inside the data directory.
const DatabaseFile = "database.sqlite"

const (
	defaultConfigPath           = "~/.config/seasonwatch/config.toml"
	defaultDataDir              = "~/.seasonwatch"
	defaultTMDBBaseURL          = "https://api.themoviedb.org/3"
	defaultOMDbBaseURL          = "https://www.omdbapi.com"
	defaultDiscogsBaseURL       = "https://api.discogs.com"
	defaultLanguage             = "en-US"
	defaultProviderTimeout      = 15
	defaultMaxRetries           = 3
	defaultSoonWindowDays       = 90
	defaultBackupKeep           = 10
	defaultNotifyRequestTimeout = 10
	defaultNotifyUrgency        = "normal"
	defaultNotifyTimeoutMS      = 10000
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Providers: Providers{
			TV:             TVProviderTMDB,
			TMDBBaseURL:    defaultTMDBBaseURL,
			OMDbBaseURL:    defaultOMDbBaseURL,
			DiscogsBaseURL: defaultDiscogsBaseURL,
			Language:       defaultLanguage,
			RequestTimeout: defaultProviderTimeout,
			MaxRetries:     defaultMaxRetries,
		},
		Reconcile: Reconcile{
			SoonWindowDays: defaultSoonWindowDays,
			BackupKeep:     defaultBackupKeep,
			NotifiedStamp:  StampAlways,
			MusicEnabled:   true,
		},
		Notifications: Notifications{
			Backend:        BackendDesktop,
			RequestTimeout: defaultNotifyRequestTimeout,
			Urgency:        defaultNotifyUrgency,
			TimeoutMS:      defaultNotifyTimeoutMS,
			NotifySoon:     true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
