package main

import (
	"fmt"
	"os"

	"github.com/aretw0/waypoint/internal/cli"
	"github.com/aretw0/waypoint/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [visited path...]",
	Short: "Export the route tree visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the route tree, guards and redirects.
Paths given as arguments are highlighted as visited; --session highlights the
session's current location.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFrom(cmd)
		sessionID, _ := cmd.Flags().GetString("session")

		app, err := cli.NewApp(opts)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		var overlay *graph.Overlay
		if len(args) > 0 || sessionID != "" {
			overlay = &graph.Overlay{}
			for _, p := range args {
				if loc, err := app.Table.Match(p); err == nil {
					overlay.Visited = append(overlay.Visited, loc.Pattern)
				}
			}
			if sessionID != "" {
				current, err := app.Sessions.Current(cmd.Context(), sessionID)
				if err != nil {
					fmt.Printf("Error loading session %s: %v\n", sessionID, err)
					app.Close()
					os.Exit(1)
				}
				if loc, err := app.Table.Match(current.Path); err == nil {
					overlay.Current = loc.Pattern
				}
			}
		}

		fmt.Print(graph.GenerateMermaid(app.File.Routes, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight this session's current location")
}
