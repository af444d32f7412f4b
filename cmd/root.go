// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bascanada/logexplorer/pkg/datasource"
	"github.com/bascanada/logexplorer/pkg/log/printer"
)

var rootCmd = &cobra.Command{
	Use:   "logexplorer",
	Short: "Explore logs from a starting point, narrowing them down with filters and patterns",
	Long: `logexplorer opens an exploration on a log datasource (local file or Loki).

Pick a starting point (a service), then refine the logs with label and field
filters, include/exclude patterns and a line filter. Every exploration can be
shared as a logexplorer:// link and restored with --url.`,
	PersistentPreRun: onCommandStart,
	Run: func(cmd *cobra.Command, args []string) {
		// Check if config exists before showing generic help
		if datasource.ResolveConfigPath(configPath) == "" {
			fmt.Println("Welcome to logexplorer!")
			fmt.Println("\nNo datasource configuration found.")
			fmt.Printf("   Create ~/%s/%s or point --config / %s to one.\n",
				datasource.DefaultConfigDir, datasource.DefaultConfigFile, datasource.EnvConfigPath)
			fmt.Println("\nOr use 'logexplorer --help' to see all available options.")
			return
		}
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printer.Error(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "datasources config file (json or yaml)")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", "", "preferences file (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&logger.Path, "logging-path", "", "file to output logs of the application")
	rootCmd.PersistentFlags().StringVar(&logger.Level, "logging-level", "", "logging level to output INFO WARN ERROR DEBUG TRACE")
	rootCmd.PersistentFlags().BoolVar(&logger.Stdout, "logging-stdout", false, "output application log in the stdout")
	rootCmd.PersistentFlags().BoolVar(&debugHttp, "debug-http", false, "log http requests and responses")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize output: auto, always or never")

	// Register completion for --logging-level flag
	_ = rootCmd.RegisterFlagCompletionFunc("logging-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("color", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(urlCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(datasourceCmd)
	rootCmd.AddCommand(versionCommand)
}
