package main

import (
	"fmt"
	"os"

	"github.com/aretw0/waypoint/internal/cli"
	"github.com/aretw0/waypoint/internal/presentation/tui"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/spf13/cobra"
)

var navigateCmd = &cobra.Command{
	Use:   "navigate [path...]",
	Short: "Navigate a session through one or more paths",
	Long: `Runs each path through the transition pipeline and prints what happens.
Without arguments, paths are read from stdin, one per line.`,
	Aliases: []string{"nav"},
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFrom(cmd)
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Quiet, _ = cmd.Flags().GetBool("quiet")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		jsonMode, _ := cmd.Flags().GetBool("json")

		var extra []domain.LifecycleHooks
		var jw *cli.JSONWriter
		switch {
		case jsonMode:
			jw = cli.NewJSONWriter(os.Stdout)
			extra = append(extra, jw.Hooks())
		case !opts.Quiet:
			extra = append(extra, tui.NewTrace(os.Stdout).Hooks())
		}

		app, err := cli.NewApp(opts, extra...)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		if len(args) == 0 && !opts.Quiet && !jsonMode && tui.IsTerminal(os.Stdin) {
			tui.PrintBanner(os.Stdout)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if jsonMode {
			err = cli.NavigateJSON(ctx, app, opts, args, os.Stdin, jw)
		} else {
			err = cli.Navigate(ctx, app, opts, args, os.Stdin, os.Stdout)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			app.Close()
			os.Exit(1)
		}
		if sig := ctx.Signal(); sig != nil {
			fmt.Printf("\nInterrupted by %v\n", sig)
		}
	},
}

func init() {
	rootCmd.AddCommand(navigateCmd)

	navigateCmd.Flags().StringP("session", "s", "cli", "Session ID to navigate")
	navigateCmd.Flags().BoolP("quiet", "q", false, "Only report errors")
	navigateCmd.Flags().Bool("fresh", false, "Discard the stored session before navigating")
	navigateCmd.Flags().Bool("json", false, "Read JSON-string paths and write events and outcomes as JSON lines")
}
