package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
	"github.com/blackwell-systems/tweetgenie/internal/reqcache"
)

// Config is the top-level tweetgenie configuration.
type Config struct {
	Source        Source          `mapstructure:"source"`
	TimeframeDays int             `mapstructure:"timeframe_days" validate:"gte=1,lte=365"`
	Cache         Cache           `mapstructure:"cache"`
	Policy        analyzer.Policy `mapstructure:"policy"`
	Watch         Watch           `mapstructure:"watch"`
	Output        Output          `mapstructure:"output"`
	Log           Log             `mapstructure:"log"`
	Store         Store           `mapstructure:"store"`
}

// Source selects where datasets come from. File wins when both are set.
type Source struct {
	File    string        `mapstructure:"file"`
	APIURL  string        `mapstructure:"api_url" validate:"omitempty,url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=1s"`
}

// Cache mirrors reqcache.Config.
type Cache = reqcache.Config

// Watch defines watcher settings.
type Watch struct {
	Interval time.Duration `mapstructure:"interval" validate:"gte=1s"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width" validate:"gte=20"`
}

// Log defines logging preferences.
type Log struct {
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Store locates the snapshot database. An empty Path means DBPath().
type Store struct {
	Path string `mapstructure:"path"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.file", DefaultSource.File)
	v.SetDefault("source.api_url", DefaultSource.APIURL)
	v.SetDefault("source.token", DefaultSource.Token)
	v.SetDefault("source.timeout", DefaultSource.Timeout)
	v.SetDefault("timeframe_days", DefaultTimeframeDays)
	v.SetDefault("cache.ttl", DefaultCache.TTL)
	v.SetDefault("cache.error_ttl", DefaultCache.ErrorTTL)
	v.SetDefault("cache.max_entries", DefaultCache.MaxEntries)
	v.SetDefault("watch.interval", DefaultWatch.Interval)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("log.format", DefaultLog.Format)
	v.SetDefault("store.path", "")

	p := analyzer.DefaultPolicy()
	v.SetDefault("policy.slot_weight_divisor", p.SlotWeightDivisor)
	v.SetDefault("policy.slot_weight_min", p.SlotWeightMin)
	v.SetDefault("policy.slot_weight_max", p.SlotWeightMax)
	v.SetDefault("policy.slot_rate_boost", p.SlotRateBoost)
	v.SetDefault("policy.slot_min_sample", p.SlotMinSample)
	v.SetDefault("policy.slot_limit", p.SlotLimit)
	v.SetDefault("policy.engagement_strong", p.EngagementStrong)
	v.SetDefault("policy.engagement_healthy", p.EngagementHealthy)
	v.SetDefault("policy.min_tweets_per_day", p.MinTweetsPerDay)
	v.SetDefault("policy.volatile_no_reach_share", p.VolatileNoReachShare)
	v.SetDefault("policy.confidence_high", p.ConfidenceHigh)
	v.SetDefault("policy.confidence_medium", p.ConfidenceMedium)
	v.SetDefault("policy.max_insights", p.MaxInsights)
	v.SetDefault("policy.cadence_goal_floor", p.CadenceGoalFloor)
	v.SetDefault("policy.cadence_goal_multiplier", p.CadenceGoalMultiplier)
	v.SetDefault("policy.rate_goal_factor", p.RateGoalFactor)
	v.SetDefault("policy.rate_goal_min_step", p.RateGoalMinStep)
	v.SetDefault("policy.rate_goal_max_step", p.RateGoalMaxStep)
	v.SetDefault("policy.impressions_goal_multiplier", p.ImpressionsGoalMultiplier)
	v.SetDefault("policy.impressions_goal_min_step", p.ImpressionsGoalMinStep)
}

// Load reads configuration from the given path (or the default location),
// applies TWEETGENIE_* environment overrides and defaults, and validates the
// result.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Source.File = expandPath(cfg.Source.File)
	cfg.Store.Path = expandPath(cfg.Store.Path)
	if cfg.Store.Path == "" {
		cfg.Store.Path = DBPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field constraint and reports all violations at once.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = describe(fe)
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte", "gtefield":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
