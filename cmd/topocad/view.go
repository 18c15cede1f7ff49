package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"topocad/internal/app"
	"topocad/internal/config"
	"topocad/internal/logger"
)

var viewCmd = &cobra.Command{
	Use:   "view <project-id>",
	Short: "Open the interactive plan viewer for a project",
	Long: `Open the CAD canvas for a project: pan and zoom the point cloud,
relocate points by dragging, and draw polylines across layers.
Edits are persisted to the backend as you work.`,
	Args: cobra.ExactArgs(1),
	Run:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) {
	projectID, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid project id %q\n", args[0])
		os.Exit(1)
	}

	log := logger.New(config.Load())
	defer log.Sync()

	client, _ := newClient(log)
	app.Run(client, projectID, log.Logger)
}
