// Command parkctl inspects and operates a running park server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VirEgo/park-tycoon/internal/client"
)

var (
	serverURL string
	adminKey  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "parkctl",
		Short: "Operate a park simulation server",
		Long: `parkctl reads park state and sends build, repair, and gate
commands to a running parksim server over its HTTP API.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOr("PARKCTL_SERVER", "http://localhost:8080"), "Park server base URL")
	rootCmd.PersistentFlags().StringVarP(&adminKey, "key", "k", os.Getenv("PARKCTL_KEY"), "Admin bearer key for commands")

	rootCmd.AddCommand(
		statusCmd(),
		buildingsCmd(),
		plotsCmd(),
		placeCmd(),
		demolishCmd(),
		upgradeCmd(),
		themeCmd(),
		repairCmd(),
		repairAllCmd(),
		pauseCmd(),
		gateCmd("open", true),
		gateCmd("close", false),
		buyPlotCmd(),
		saveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newClient() *client.Client {
	return client.New(serverURL, adminKey)
}
