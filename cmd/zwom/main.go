package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sco1/zwom/internal/batch"
	"github.com/sco1/zwom/internal/convert"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	outPath := flag.String("out", "", "output path (single-file mode; defaults to the input with a .zwo extension)")
	force := flag.Bool("force", false, "re-convert inputs already recorded in the state database (directory mode)")
	dryRun := flag.Bool("dry-run", false, "convert without writing output files (directory mode)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("zwom", Version)
		return
	}

	target := flag.Arg(0)
	if target == "" {
		fmt.Fprintf(os.Stderr, "Usage: zwom [-out FILE | -force -dry-run] <file.zwom | directory>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if info.IsDir() {
		runBatch(target, *force, *dryRun)
		return
	}

	out := *outPath
	if out == "" {
		out = convert.OutputPath(target)
	}
	if err := convert.ConvertFile(target, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

func runBatch(dir string, force, dryRun bool) {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}

	state, err := batch.OpenStateDB(filepath.Join(homeDir, ".zwom"))
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if dryRun {
		log.Info("DRY RUN mode — files will be converted but not written")
	}

	stats, err := batch.New(state, dir, force, dryRun, log).Run()
	if err != nil {
		log.Error("batch failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	if stats.FilesErrored > 0 {
		os.Exit(1)
	}
}

func printStats(stats *batch.Stats) {
	fmt.Println()
	fmt.Println("=== Conversion Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files converted:  %d\n", stats.FilesConverted)
	fmt.Printf("  Files skipped:    %d (already converted)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
}
