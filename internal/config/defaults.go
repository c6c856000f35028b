package config

const (
	defaultRootDir                = "~/.config/subedit"
	defaultStateDir               = "~/.local/share/subedit"
	defaultDuration               = 2000
	defaultStyleName              = "Default"
	defaultMaxCharactersPerSecond = 15
	defaultSpellCheck             = "en_US"
	defaultScriptsDebounceMillis  = 250
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLogRetentionDays       = 14
	defaultRecentLimit            = 20
)

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Subs: Subs{
			DefaultDuration:        defaultDuration,
			DefaultStyleName:       defaultStyleName,
			MaxCharactersPerSecond: defaultMaxCharactersPerSecond,
		},
		Paths: Paths{
			RootDir:  defaultRootDir,
			StateDir: defaultStateDir,
		},
		GUI: GUI{
			SpellCheck: defaultSpellCheck,
		},
		Scripts: Scripts{
			Watch:          true,
			DebounceMillis: defaultScriptsDebounceMillis,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			File:          true,
			RetentionDays: defaultLogRetentionDays,
		},
		Recent: Recent{
			Limit: defaultRecentLimit,
		},
	}
}
