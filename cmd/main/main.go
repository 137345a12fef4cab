package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"youtrack-mcp/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "youtrack-mcp",
	Short: "YouTrack MCP - issue tracker tools for AI agents",
	Long: `youtrack-mcp exposes the YouTrack REST API as Model Context Protocol tools,
letting an AI agent query and mutate issues, projects and users, and run
searches in YouTrack's query language.

Configuration is taken from the environment:
  YOUTRACK_URL          Base URL of the YouTrack instance (required)
  YOUTRACK_API_TOKEN    Permanent token used as bearer credential (required)
  YOUTRACK_CLOUD        Set to true for YouTrack Cloud instances
  YOUTRACK_VERIFY_SSL   Set to false to skip TLS verification (default true)`,
	Version: version.GetVersionString(),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default run mode is serving MCP over stdio.
		return runServe(cmd, args)
	},
}

func init() {
	cobra.OnInitialize(initViper)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initViper() {
	viper.SetEnvPrefix("YOUTRACK_MCP")
	viper.AutomaticEnv()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print detailed version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.GetFullVersionString())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
