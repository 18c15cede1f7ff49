package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"topocad/internal/config"
	"topocad/internal/logger"
	"topocad/pkg/topoapi"
	"topocad/version"
)

var rootCmd = &cobra.Command{
	Use:   "topocad",
	Short: "CAD viewer and tools for survey projects",
	Long: `topocad is a desktop viewer and command-line toolset for land-surveying
projects: point clouds, total-station observations, drawing layers and
terrain surfaces served by a topography backend.`,
	Version: version.GetFullVersion(),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newClient builds the API client from the environment
func newClient(log *logger.Logger) (*topoapi.Client, *config.Config) {
	cfg := config.Load()
	opts := []topoapi.Option{topoapi.WithLogger(log.Logger)}
	if cfg.APIToken != "" {
		opts = append(opts, topoapi.WithToken(cfg.APIToken))
	}
	return topoapi.NewClient(cfg.APIBaseURL, opts...), cfg
}
