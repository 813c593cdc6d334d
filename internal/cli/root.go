package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/degreeplan/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is the CLI version, overridden at build time via -ldflags
var Version = "v0.3.2"

var (
	cfgFile string
	verbose bool
	format  string
	logger  = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "degreeplan",
	Short: "degreeplan - requirement filters and groups for course planning",
	Long: `degreeplan organizes a major's degree requirements the way the course
planner's filter dropdown shows them.

Requirement paths from the Requirements API are split into Core and GenEd
groups, selections are stored per major, and the selection summary is
collapsed into the fewest group and requirement tags.

Requirements are read from a saved payload (--records) or fetched from the
API (--api).`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetBool("output.verbose"))
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of degreeplan.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "degreeplan %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.degreeplan/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "o", "", "output format: text, json or yaml")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("format"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, model.HomeDirName))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match DEGREEPLAN_*, e.g. DEGREEPLAN_API_BASE_URL
	viper.SetEnvPrefix("DEGREEPLAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env vars can override it
func setDefaults(cfg *model.Config) {
	viper.SetDefault("api.base_url", cfg.API.BaseURL)
	viper.SetDefault("api.timeout", cfg.API.Timeout)
	viper.SetDefault("api.user_agent", cfg.API.UserAgent)
	viper.SetDefault("api.max_body_bytes", cfg.API.MaxBodyBytes)
	viper.SetDefault("api.http_proxy", cfg.API.HTTPProxy)
	viper.SetDefault("api.https_proxy", cfg.API.HTTPSProxy)
	viper.SetDefault("api.no_proxy", cfg.API.NoProxy)

	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_dir", cfg.Cache.DiskDir)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	viper.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	viper.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)

	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)

	viper.SetDefault("store.driver", cfg.Store.Driver)
	viper.SetDefault("store.path", cfg.Store.Path)
	viper.SetDefault("store.dsn", cfg.Store.DSN)

	viper.SetDefault("output.format", cfg.Output.Format)
	viper.SetDefault("output.verbose", cfg.Output.Verbose)
}

// loadConfig resolves the effective configuration from all sources
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	switch cfg.Output.Format {
	case "text", "json", "yaml":
	default:
		return nil, fmt.Errorf("unsupported output format %q (use text, json or yaml)", cfg.Output.Format)
	}
	return cfg, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.DisableStacktrace = true
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}
