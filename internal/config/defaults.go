// Package config provides configuration loading and defaults for tweetgenie.
package config

import "time"

// DefaultConfigDir is the default location for tweetgenie configuration.
const DefaultConfigDir = "~/.config/tweetgenie"

// DefaultDBName is the filename for the SQLite snapshot database.
const DefaultDBName = "tweetgenie.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. TWEETGENIE_SOURCE_TOKEN.
const EnvPrefix = "TWEETGENIE"

// DefaultTimeframeDays is the reporting window requested from the API.
const DefaultTimeframeDays = 30

// DefaultSource holds the default metrics source settings.
var DefaultSource = Source{
	Timeout: 15 * time.Second,
}

// DefaultCache holds the default request cache lifetimes.
var DefaultCache = Cache{
	TTL:        5 * time.Minute,
	ErrorTTL:   30 * time.Second,
	MaxEntries: 256,
}

// DefaultWatch holds the default watcher settings.
var DefaultWatch = Watch{
	Interval: 5 * time.Minute,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultLog holds the default logging settings.
var DefaultLog = Log{
	Format: "text",
}
