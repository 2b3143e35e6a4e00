//nolint:wrapcheck
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/icad-go/tonedetect"
	"github.com/icad-go/tonedetect/internal/catalog"
	"github.com/icad-go/tonedetect/internal/cooldown"
	"github.com/icad-go/tonedetect/internal/faults"
	"github.com/icad-go/tonedetect/internal/integration/ffmpeg"
	"github.com/icad-go/tonedetect/internal/types"
)

const outputFile = "tonedetect-report.jsonl"

var (
	errNotDirectory  = errors.New("not a directory")
	errNoAudioFiles  = errors.New("no .mp3, .wav, or .m4a files found")
)

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Scan a folder of recorded clips and write a tonedetect JSONL report",
		ArgsUsage: "<folder>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML tone profile catalog",
			},
			&cli.StringFlag{
				Name:    "stream",
				Aliases: []string{"s"},
				Usage:   "Stream scope for cooldown partitioning",
				Value:   "default",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of concurrent workers",
				Value:   runtime.NumCPU(),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("expected exactly one argument: folder path")
			}

			workers := max(cmd.Int("workers"), 1)

			return runReport(ctx, cmd.Args().First(), cmd.String("catalog"), cmd.String("stream"), workers)
		},
	}
}

func runReport(ctx context.Context, folder, catalogPath, streamScope string, workers int) error {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q: %w", folder, errNotDirectory)
	}

	files, err := collectAudioFiles(folder)
	if err != nil {
		return fmt.Errorf("scanning folder: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("%q: %w", folder, errNoAudioFiles)
	}

	fmt.Fprintf(os.Stderr, "Found %d files to scan (%d workers)\n", len(files), workers)

	profileCatalog, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}

	store := cooldown.NewStore()
	defer store.Close()

	deps := tonedetect.Deps{
		Codec:   ffmpeg.New(),
		Store:   store,
		Catalog: profileCatalog,
		WorkDir: os.TempDir(),
	}

	startTime := time.Now()
	results := make([]Record, len(files))

	var progress atomic.Int64

	sem := make(chan struct{}, workers)

	var waitGroup sync.WaitGroup

	for idx, filePath := range files {
		waitGroup.Add(1)

		go func(idx int, filePath string) {
			defer waitGroup.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = processFile(ctx, deps, filePath, streamScope)

			done := progress.Add(1)
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", done, len(files), filePath)
		}(idx, filePath)
	}

	waitGroup.Wait()

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	failed := 0

	for idx := range results {
		if results[idx].Error != "" {
			failed++
		}

		if err := enc.Encode(&results[idx]); err != nil {
			fmt.Fprintf(os.Stderr, "writing record for %s: %v\n", files[idx], err)
		}
	}

	elapsed := time.Since(startTime)

	fmt.Fprintf(os.Stderr, "\nDone: %d files in %s (%d failed)\n", len(files), elapsed.Truncate(time.Millisecond), failed)
	fmt.Fprintf(os.Stderr, "Report written to %s\n\n", outputFile)

	return runDigest(outputFile, "")
}

func processFile(ctx context.Context, deps tonedetect.Deps, filePath, streamScope string) Record {
	start := time.Now()

	blob, err := os.ReadFile(filePath) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return Record{File: filePath, Error: err.Error()}
	}

	ext := strings.TrimPrefix(filepath.Ext(filePath), ".")

	metadata := types.Metadata{StartTime: time.Now().Unix()}

	result, err := tonedetect.Process(ctx, deps, blob, ext, metadata, streamScope, tonedetect.DefaultOptions())
	if err != nil && !errors.Is(err, faults.ErrPending) {
		return Record{File: filePath, Error: err.Error(), TimingMs: msSince(start)}
	}

	if result == nil {
		return Record{File: filePath, TimingMs: msSince(start)}
	}

	matches := make([]MatchLine, 0, len(result.Matches))
	for _, m := range result.Matches {
		matches = append(matches, MatchLine{ProfileID: m.ProfileID, ProfileName: m.ProfileName, WasSuppressed: m.WasSuppressed})
	}

	return Record{
		File:       filePath,
		QuickCalls: len(result.QuickCalls),
		LongTones:  len(result.LongTones),
		HiLowTones: len(result.HiLowTones),
		DtmfTones:  len(result.DtmfTones),
		Matches:    matches,
		TimingMs:   msSince(start),
	}
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

func loadCatalog(path string) (*catalog.Static, error) {
	if path == "" {
		return catalog.Load(nil)
	}

	return catalog.LoadFile(path)
}

func collectAudioFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".mp3", ".wav", ".m4a":
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)

	return files, nil
}
