package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/rumorscope/internal/logging"
	"github.com/ppiankov/rumorscope/internal/model"
	"github.com/ppiankov/rumorscope/internal/pipeline"
	"github.com/ppiankov/rumorscope/internal/store"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rumorscope",
	Short: "Rumorscope - misinformation risk checks for short posts",
	Long: `Rumorscope checks a short piece of text, such as a forwarded message or a
social media post, for misinformation risk.

It extracts the factual claims, detects manipulation patterns, looks up
fact-checks and authoritative health sources, and explains the resulting
risk score together with a short lesson on spotting similar content.

A risk score is a heuristic, not a verdict on truth.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logLevel
		if level == "" {
			level = viper.GetString("log.level")
		}
		if verbose {
			level = "debug"
		}
		logging.Init(os.Stderr, level)
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
	Long:  `Display the version number of Rumorscope.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rumorscope %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.rumorscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// envKeys are the nested config keys that may be supplied as RUMORSCOPE_* variables
var envKeys = []string{
	"evidence.factcheck_api_key",
	"evidence.factcheck_token",
	"evidence.search_api_key",
	"evidence.search_engine_id",
	"translate.provider",
	"translate.model",
	"translate.api_key",
	"translate.base_url",
	"store.driver",
	"store.path",
	"store.redis_addr",
	"store.redis_password",
	"server.addr",
	"server.debug",
	"log.level",
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".rumorscope"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// RUMORSCOPE_EVIDENCE_FACTCHECK_API_KEY maps to evidence.factcheck_api_key
	viper.SetEnvPrefix("RUMORSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file and environment over the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// buildPipeline wires the pipeline and, unless disabled, its result store
func buildPipeline(cfg *model.Config, persist bool) (*pipeline.Pipeline, error) {
	var opts []pipeline.Option
	if persist {
		s, err := store.Open(cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		opts = append(opts, pipeline.WithStore(s))
	}
	return pipeline.New(cfg, opts...), nil
}
