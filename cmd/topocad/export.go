package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"topocad/internal/config"
	"topocad/internal/logger"
	"topocad/internal/view"
	"topocad/pkg/dxf"
	"topocad/pkg/plan"
	"topocad/pkg/survey"
)

var (
	exportOutput string
	exportFormat string
	exportWidth  int
	exportHeight int
)

var exportCmd = &cobra.Command{
	Use:   "export <project-id>",
	Short: "Export a project's plan as PNG or DXF",
	Long: `Render the point cloud, sight lines and visible drawing layers to a
PNG image framed the way the viewer would open, or write the points
and layer segments as a DXF drawing for desktop CAD packages.`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default plan.png or plan.dxf)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "png or dxf (default from output extension)")
	exportCmd.Flags().IntVar(&exportWidth, "width", 1600, "image width in pixels")
	exportCmd.Flags().IntVar(&exportHeight, "height", 1200, "image height in pixels")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	projectID, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid project id %q\n", args[0])
		os.Exit(1)
	}

	format := resolveFormat()
	if format == "" {
		fmt.Fprintf(os.Stderr, "unknown export format, use --format png or --format dxf\n")
		os.Exit(1)
	}
	output := exportOutput
	if output == "" {
		output = "plan." + format
	}

	log := logger.New(config.Load())
	defer log.Sync()
	client, _ := newClient(log)
	ctx := context.Background()

	points, err := client.Points(ctx, projectID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching points: %v\n", err)
		os.Exit(1)
	}
	stations, _ := client.Stations(ctx, projectID)
	layers, _ := client.Layers(ctx, projectID)

	file, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", output, err)
		os.Exit(1)
	}
	defer file.Close()

	switch format {
	case "dxf":
		if err := dxf.Write(file, dxf.Document{Points: points, Layers: layers}); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing DXF: %v\n", err)
			os.Exit(1)
		}

	default:
		viewport := view.FitToExtents(survey.Extents(points),
			float64(exportWidth), float64(exportHeight), 50)

		list := plan.Build(plan.Input{
			Points:         points,
			Stations:       stations,
			Layers:         layers,
			Viewport:       viewport,
			ShowElevations: true,
		})
		img := plan.Rasterize(list, exportWidth, exportHeight)

		if err := png.Encode(file, img); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding PNG: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Exported %d points, %d stations, %d layers to %s\n",
		len(points), len(stations), len(layers), output)
}

// resolveFormat decides the export format from the flag, falling back
// to the output file extension
func resolveFormat() string {
	switch strings.ToLower(exportFormat) {
	case "png", "dxf":
		return strings.ToLower(exportFormat)
	case "":
	default:
		return ""
	}

	switch strings.ToLower(filepath.Ext(exportOutput)) {
	case ".dxf":
		return "dxf"
	case ".png", "":
		return "png"
	}
	return "png"
}
