package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"topocad/internal/config"
	"topocad/internal/logger"
	"topocad/pkg/analysis"
	"topocad/pkg/survey"
)

var layersCmd = &cobra.Command{
	Use:   "layers <project-id>",
	Short: "List a project's drawing layers",
	Long:  "Show each layer with its segment count and any segments referencing points that no longer exist.",
	Args:  cobra.ExactArgs(1),
	Run:   runLayers,
}

func init() {
	rootCmd.AddCommand(layersCmd)
}

func runLayers(cmd *cobra.Command, args []string) {
	projectID, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid project id %q\n", args[0])
		os.Exit(1)
	}

	log := logger.New(config.Load())
	defer log.Sync()
	client, _ := newClient(log)
	ctx := context.Background()

	layers, err := client.Layers(ctx, projectID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching layers: %v\n", err)
		os.Exit(1)
	}
	points, err := client.Points(ctx, projectID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching points: %v\n", err)
		os.Exit(1)
	}
	pointsByID := survey.PointsByID(points)

	for _, layer := range layers {
		visibility := "visible"
		if !layer.Visible {
			visibility = "hidden"
		}

		drawing := layer.Drawing()
		result := analysis.AnalyzeDrawing(drawing, pointsByID)

		fmt.Printf("[%d] %s  %s  %s  %d segments\n",
			layer.ID, layer.Name, layer.Color, visibility, len(drawing.Lines))
		if len(result.Segments) > 0 {
			fmt.Printf("    length: %s", analysis.FormatDistance(result.TotalLength))
			if result.ClosedArea > 0 {
				fmt.Printf("  enclosed area: %.3f m²", result.ClosedArea)
			}
			fmt.Println()
		}
		if result.DanglingCount > 0 {
			fmt.Printf("    warning: %d segment(s) reference missing points and will not render\n", result.DanglingCount)
		}
	}

	if len(layers) == 0 {
		fmt.Println("no layers")
	}
}
