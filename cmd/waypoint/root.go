package main

import (
	"fmt"
	"os"

	"github.com/aretw0/waypoint/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "waypoint",
	Short: "Waypoint runs navigation transitions over a route table",
	Long: `Waypoint loads a route table (YAML or JSON) whose routes carry scripted guards,
data loaders and reuse rules, and drives navigations through it from the terminal,
over HTTP or as an MCP server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "routes.yaml", "Route table file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().String("redis", "", "Redis address; overrides the store section of the route table")
}

// optionsFrom collects the shared flags.
func optionsFrom(cmd *cobra.Command) cli.Options {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	redisAddr, _ := cmd.Flags().GetString("redis")
	return cli.Options{
		ConfigPath: configPath,
		Debug:      debug,
		RedisAddr:  redisAddr,
	}
}
