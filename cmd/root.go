package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "faceid",
	Short: "A face embedding store and identification engine",
	Long: `Faceid enrolls faces by storing their embedding vectors under a label
and identifies faces in new images by nearest-neighbor search over the
enrolled population. Detection and embedding run on an external model
server; this tool handles normalization, storage and matching.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
