// seriesdb-cli is a maintenance and inspection tool for the databases
// behind the uniform access layer. It connects through the same driver
// registry as applications do, so every backend supported by the library
// is supported here.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/seriesdb/seriesdb/pkg/driver"
	"github.com/seriesdb/seriesdb/pkg/logger"
)

var (
	configFile string
	profile    string
	verbose    bool

	// Set by the build.
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func printVersionInfo() {
	fmt.Printf("seriesdb-cli v%s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

var rootCmd = &cobra.Command{
	Use:   "seriesdb-cli",
	Short: "Uniform SQL database maintenance tool",
	Long: "Create, drop, and inspect databases across every supported backend " +
		"through one command set and one configuration format.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Lookup("version").Changed {
			printVersionInfo()
			return nil
		}
		return cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.ExpandEnv("$HOME/.seriesdb/config.yaml"), "Path to config file")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "default", "Connection profile to use")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().Bool("version", false, "Show version information and exit")

	cobra.OnInitialize(func() {
		log := logger.New("cli")
		if verbose {
			log.SetLevel(logger.LevelDebug)
		} else {
			log.SetLevel(logger.LevelWarn)
		}
		driver.SetLogger(log)
	})

	setupConnectionFlags()
	setupCommands()
}

func main() {
	Execute()
}
