package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/internal/cli"
	waypointhttp "github.com/aretw0/waypoint/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves navigation sessions as a JSON API over HTTP, with server-sent location events and Prometheus metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFrom(cmd)
		port, _ := cmd.Flags().GetString("port")

		app, err := cli.NewApp(opts)
		if err != nil {
			fmt.Printf("Error initializing waypoint: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		handler := waypointhttp.NewHandler(app.Sessions,
			waypointhttp.WithLogger(app.Logger),
			waypointhttp.WithMetrics(app.Metrics.Handler()),
			waypointhttp.WithVersion(waypoint.Version),
		)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Waypoint Server on %s\n", srv.Addr)
			fmt.Printf("Serving routes from: %s\n", opts.ConfigPath)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			app.Close()
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests (and open event streams) a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Waypoint Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
