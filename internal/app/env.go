package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
	"github.com/blackwell-systems/tweetgenie/internal/config"
	"github.com/blackwell-systems/tweetgenie/internal/logging"
	"github.com/blackwell-systems/tweetgenie/internal/output"
	"github.com/blackwell-systems/tweetgenie/internal/reqcache"
	"github.com/blackwell-systems/tweetgenie/internal/source"
	"github.com/blackwell-systems/tweetgenie/internal/suggest"
)

// env is the state every command builds before doing its work.
type env struct {
	cfg      *config.Config
	log      *logrus.Logger
	provider source.Provider
}

// loadEnv reads the config, applies global flag overrides, configures color
// and logging, and builds the dataset provider.
func loadEnv(cmd *cobra.Command) (*env, error) {
	return loadEnvWith(cmd, os.Stderr, nil)
}

// loadEnvWith is loadEnv with an explicit log destination and an optional
// registry for request cache metrics.
func loadEnvWith(cmd *cobra.Command, logOut io.Writer, reg prometheus.Registerer) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	applyFlagOverrides(cmd, cfg)

	output.SetNoColor(flagNoColor || !output.ColorEnabled(os.Stdout, cfg.Output.Color))
	output.SetWidth(cfg.Output.Width)

	log := logging.New(logOut, cfg.Log.Format, flagVerbose)
	provider, err := newProvider(cfg, log, reg)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, provider: provider}, nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source.File = flagSource
	}
	if flags.Changed("api-url") {
		cfg.Source.APIURL = flagAPIURL
		if !flags.Changed("source") {
			cfg.Source.File = ""
		}
	}
	if flags.Changed("days") && flagDays > 0 {
		cfg.TimeframeDays = flagDays
	}
}

// newProvider picks the dataset file when one is configured and the API
// client otherwise.
func newProvider(cfg *config.Config, log *logrus.Logger, reg prometheus.Registerer) (source.Provider, error) {
	if cfg.Source.File != "" {
		log.WithField("path", cfg.Source.File).Debug("reading dataset file")
		return source.FileProvider{Path: cfg.Source.File, Days: cfg.TimeframeDays}, nil
	}

	var opts []reqcache.Option
	if reg != nil {
		opts = append(opts, reqcache.WithHooks(reqcache.PrometheusHooks(reg)))
	}
	client, err := source.NewClient(source.ClientConfig{
		BaseURL: cfg.Source.APIURL,
		Token:   cfg.Source.Token,
		Timeout: cfg.Source.Timeout,
		Days:    cfg.TimeframeDays,
	}, reqcache.New(cfg.Cache, opts...), log)
	if err != nil {
		return nil, fmt.Errorf("creating api client: %w", err)
	}
	return client, nil
}

// analyze reads the dataset and runs the pipeline over it.
func (e *env) analyze(ctx context.Context) (*analyzer.Dataset, suggest.Report, error) {
	ds, err := e.dataset(ctx)
	if err != nil {
		return nil, suggest.Report{}, err
	}
	return ds, suggest.Analyze(*ds, e.cfg.Policy), nil
}

func (e *env) dataset(ctx context.Context) (*analyzer.Dataset, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ds, err := e.provider.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	return ds, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
