// Command hubserver runs the 360 Hub booking API, its notification worker
// and schema migrations.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "hubserver",
		Short:         "Tour booking and ticket donation API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newWorkerCmd(), newMigrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
