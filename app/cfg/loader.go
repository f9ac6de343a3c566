package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Jira configuration
	JiraHost       string `long:"jira-host" env:"JIRA_HOST" description:"Base URL of the Jira instance (required)" required:"true"`
	CertFile       string `long:"cert-file" env:"CERT_FILE" description:"Path to the TLS client certificate (PEM)"`
	KeyFile        string `long:"key-file" env:"KEY_FILE" description:"Path to the TLS client key (PEM, defaults to cert file)"`
	RequestTimeout int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"60" description:"HTTP request timeout in seconds"`
	MaxResults     int    `long:"max-results" env:"MAX_RESULTS" default:"250" description:"Maximum entries requested per activity stream fetch"`

	// Application configuration
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	DBPath            string `long:"db-path" env:"DB_PATH" default:"./jira-comb.db" description:"Path to the SQLite database file"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for source refreshing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Jira Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Local" description:"Timezone used for date bucketing (e.g., UTC, Europe/Moscow)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		JiraHost:          raw.JiraHost,
		CertFile:          raw.CertFile,
		KeyFile:           cmp.Or(raw.KeyFile, raw.CertFile),
		RequestTimeout:    raw.RequestTimeout,
		MaxResults:        raw.MaxResults,
		SourcesDir:        raw.SourcesDir,
		DBPath:            raw.DBPath,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// applyTimezone sets time.Local, which drives the local calendar date an
// activity is bucketed under.
func applyTimezone(timezone string) error {
	if timezone == "" || timezone == "Local" {
		return nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	return nil
}
