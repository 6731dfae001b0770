package main

import (
	"fmt"
	"os"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the route table for consistency",
	Long:  `Compiles the route table, checks every scripted behavior and follows unconditional redirects looking for unknown targets and loops.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		if !cmd.Flags().Changed("config") && len(args) > 0 {
			configPath = args[0]
		}

		f, err := config.Load(configPath)
		if err == nil {
			err = validator.ValidateRoutes(f)
		}
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Route table is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
