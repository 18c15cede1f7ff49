package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"topocad/internal/config"
	"topocad/internal/logger"
	"topocad/pkg/survey"
)

var pointsCmd = &cobra.Command{
	Use:   "points <project-id>",
	Short: "List the points of a project",
	Args:  cobra.ExactArgs(1),
	Run:   runPoints,
}

func init() {
	rootCmd.AddCommand(pointsCmd)
}

func runPoints(cmd *cobra.Command, args []string) {
	projectID, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid project id %q\n", args[0])
		os.Exit(1)
	}

	log := logger.New(config.Load())
	defer log.Sync()
	client, _ := newClient(log)

	points, err := client.Points(context.Background(), projectID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching points: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tX\tY\tZ\tCODE\tCLASS\tFIXED")
	for _, p := range points {
		fixed := ""
		if p.IsFixed {
			fixed = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%.3f\t%.3f\t%.3f\t%s\t%s\t%s\n",
			p.ID, p.Name, p.X, p.Y, p.Z, p.Code, survey.ClassifyCode(p.Code).Name, fixed)
	}
	w.Flush()
}
