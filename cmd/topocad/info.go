package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"topocad/internal/config"
	"topocad/internal/logger"
	"topocad/internal/view"
	"topocad/pkg/survey"
)

var infoCmd = &cobra.Command{
	Use:   "info <project-id>",
	Short: "Display general information about a project",
	Long:  "Show project extents, entity counts and the initial viewport the viewer would open with.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	projectID, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid project id %q\n", args[0])
		os.Exit(1)
	}

	log := logger.New(config.Load())
	defer log.Sync()
	client, _ := newClient(log)
	ctx := context.Background()

	project, err := client.Project(ctx, projectID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching project: %v\n", err)
		os.Exit(1)
	}
	points, err := client.Points(ctx, projectID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching points: %v\n", err)
		os.Exit(1)
	}

	// Optional subsystems: keep going without them
	stations, _ := client.Stations(ctx, projectID)
	layers, _ := client.Layers(ctx, projectID)
	surfaces, _ := client.Surfaces(ctx, projectID)
	runs, _ := client.LevelingRuns(ctx, projectID)

	fmt.Println("Project Information")
	fmt.Println("===================")
	fmt.Printf("Name: %s\n", project.Name)
	if project.Description != "" {
		fmt.Printf("Description: %s\n", project.Description)
	}
	fmt.Println()

	fixed := 0
	observations := 0
	for _, p := range points {
		if p.IsFixed {
			fixed++
		}
	}
	for _, s := range stations {
		observations += len(s.Observations)
	}

	fmt.Println("Entities:")
	fmt.Printf("  Points: %d (%d fixed)\n", len(points), fixed)
	fmt.Printf("  Stations: %d (%d observations)\n", len(stations), observations)
	fmt.Printf("  Layers: %d\n", len(layers))
	fmt.Printf("  Surfaces: %d\n", len(surfaces))
	fmt.Printf("  Leveling runs: %d\n\n", len(runs))

	bounds := survey.Extents(points)
	if !bounds.IsEmpty() {
		size := bounds.Size()
		center := bounds.Center()
		fmt.Println("Extents:")
		fmt.Printf("  Min: %.3f, %.3f\n", bounds.Min.X, bounds.Min.Y)
		fmt.Printf("  Max: %.3f, %.3f\n", bounds.Max.X, bounds.Max.Y)
		fmt.Printf("  Size: %.3f x %.3f\n", size.X, size.Y)
		fmt.Printf("  Center: %.3f, %.3f\n\n", center.X, center.Y)
	}

	vp := view.FitToExtents(bounds, 1400, 900, 50)
	fmt.Println("Initial view (1400x900):")
	fmt.Printf("  Scale: %.4f px per world unit\n", vp.Scale)
	fmt.Printf("  Offset: %.1f, %.1f\n", vp.OffsetX, vp.OffsetY)
}
