package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "benchreport",
	Short: "Benchmark a package against a reference branch and publish the report",
	Long: `benchreport runs a package's benchmark suite against the current state
of the repository and against a reference branch, statistically compares the
two runs, renders performance profiles, and publishes the combined report as
a gist.`,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'benchreport --help' for usage.")
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	// explicit .env loading; a missing .env is fine
	godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("BENCHREPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The publishing credential: BENCHREPORT_GITHUB_TOKEN wins, plain
	// GITHUB_TOKEN (the CI convention) is the fallback.
	viper.BindEnv("github.token", "BENCHREPORT_GITHUB_TOKEN", "GITHUB_TOKEN")
	viper.BindEnv("slack.webhook_url", "BENCHREPORT_SLACK_WEBHOOK_URL", "SLACK_WEBHOOK_URL")

	// Defaults
	viper.SetDefault("reference", "main")
	viper.SetDefault("public", false)
	viper.SetDefault("history.file", ".benchreport/history.db")
	viper.SetDefault("verbose", false)

	viper.ReadInConfig()
}
