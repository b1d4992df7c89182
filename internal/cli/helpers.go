package cli

import (
	"fmt"

	"github.com/glacier-launcher/glacier/internal/logger"
	"github.com/glacier-launcher/glacier/pkg/config"
	"github.com/glacier-launcher/glacier/pkg/download"
	"github.com/glacier-launcher/glacier/pkg/hook"
	"github.com/glacier-launcher/glacier/pkg/install"
	"github.com/glacier-launcher/glacier/pkg/layout"
	"github.com/glacier-launcher/glacier/pkg/progress"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
)

// loadConfig loads the configuration honoring the global CLI flags and
// initializes logging from it.
func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}
	if configPath == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", err)
		}
		configPath = defaultPath
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	logger.InitLogger(cfg.Settings.LogLevel, logger.OutputFormat(cfg.Settings.LogFormat))

	return cfg, nil
}

// userAgent returns the HTTP user agent for downloads.
func userAgent(cfg *config.Config) string {
	if cfg.Settings.UserAgent != "" {
		return cfg.Settings.UserAgent
	}
	return "glacier/" + Version
}

// buildOrchestrator wires the installation pipeline from the configuration.
func buildOrchestrator(cfg *config.Config) *install.Orchestrator {
	lay := layout.NewResolver(cfg.Settings.ProfilesDir, cfg.MirrorRules())
	fetcher := download.NewManager(cfg.Settings.HTTPTimeout, userAgent(cfg), lay)
	orch := install.New(lay, fetcher, nil, nil, hook.NewManager(), progress.NewLedger())
	orch.Concurrency = cfg.Settings.MaxConcurrent
	return orch
}

// watchProgress prints ledger updates until the subscription channel closes
// or the install finishes. Call it in a goroutine.
func watchProgress(updates <-chan progress.Update, done <-chan struct{}) {
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return
			}
			if u.Counters.Total == 0 {
				continue
			}
			fmt.Printf("%s: %d/%d %s\n", u.Category, u.Counters.Completed, u.Counters.Total, u.Counters.CurrentItem)
		case <-done:
			return
		}
	}
}
