package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kurtosis",
	Short: "Kurtosis - KU Leuven study seat tools",
	Long:  `Tool server for the KURT reservation system: discover study spaces, check seat availability, and generate booking and check-in links.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
}
