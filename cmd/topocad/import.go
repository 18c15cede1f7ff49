package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"topocad/internal/config"
	"topocad/internal/logger"
	"topocad/pkg/pointfile"
	"topocad/pkg/topoapi"
	"topocad/pkg/watcher"
)

var importCmd = &cobra.Command{
	Use:   "import <project-id> <file>",
	Short: "Import points from a field listing",
	Long: `Import reads points from a comma, semicolon or whitespace delimited
listing and creates them in the project. With --watch the file is
re-imported every time it changes, which suits download folders fed
by a data collector.`,
	Args: cobra.ExactArgs(2),
	Run:  runImport,
}

var (
	importLayout string
	importWatch  bool
)

func init() {
	importCmd.Flags().StringVar(&importLayout, "layout", "nxyz", "column layout: nxyz or pnezd")
	importCmd.Flags().BoolVar(&importWatch, "watch", false, "re-import when the file changes")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) {
	projectID, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid project id %q\n", args[0])
		os.Exit(1)
	}
	filename := args[1]

	layout, err := pointfile.ParseLayout(importLayout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(config.Load())
	defer log.Sync()
	client, _ := newClient(log)

	// Imported names are tracked so a re-import only creates new rows
	seen := map[string]bool{}
	importOnce := func() {
		created, skipped, err := importFile(client, projectID, filename, layout, seen)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", filename, err)
			if !importWatch {
				os.Exit(1)
			}
			return
		}
		fmt.Printf("%s: %d points created, %d already present\n", filename, created, skipped)
	}

	importOnce()
	if !importWatch {
		return
	}

	w, err := watcher.Watch(filename, 300*time.Millisecond, importOnce)
	if err != nil {
		log.Fatal("failed to watch file", zap.Error(err))
	}
	defer w.Close()

	fmt.Printf("Watching %s, press Ctrl+C to stop\n", filename)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
}

func importFile(client *topoapi.Client, projectID int, filename string, layout pointfile.Layout, seen map[string]bool) (created, skipped int, err error) {
	points, err := pointfile.Parse(filename, layout)
	if err != nil {
		return 0, 0, err
	}

	ctx := context.Background()
	if len(seen) == 0 {
		existing, err := client.Points(ctx, projectID)
		if err != nil {
			return 0, 0, err
		}
		for _, p := range existing {
			seen[p.Name] = true
		}
	}

	for _, p := range points {
		if seen[p.Name] {
			skipped++
			continue
		}
		if _, err := client.CreatePoint(ctx, projectID, p); err != nil {
			return created, skipped, fmt.Errorf("create %s: %w", p.Name, err)
		}
		seen[p.Name] = true
		created++
	}
	return created, skipped, nil
}
