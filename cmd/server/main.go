// Package main is the entry point of the CV builder service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cvbuilder",
	Short: "CV builder HTTP service",
	Long:  "cvbuilder serves a résumé editor API with live preview, AI-assisted drafting and PDF/image export.",
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
