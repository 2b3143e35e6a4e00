//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/icad-go/tonedetect"
	"github.com/icad-go/tonedetect/internal/catalog"
	"github.com/icad-go/tonedetect/internal/cooldown"
	"github.com/icad-go/tonedetect/internal/faults"
	"github.com/icad-go/tonedetect/internal/integration/ffmpeg"
	"github.com/icad-go/tonedetect/internal/splitjoin"
	"github.com/icad-go/tonedetect/internal/types"
)

var errProcessArgs = errors.New("expected exactly one argument: file path")

func detectCommand() *cli.Command {
	return &cli.Command{
		Name:      "detect",
		Usage:     "Run tone detection on a single recorded clip",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML tone profile catalog",
			},
			&cli.StringFlag{
				Name:    "stream",
				Aliases: []string{"s"},
				Usage:   "Stream scope (e.g. short_name) for cooldown and split-join partitioning",
				Value:   "default",
			},
			&cli.StringFlag{
				Name:  "work-dir",
				Usage: "Directory persisted clips and segments are written under",
				Value: ".",
			},
			&cli.IntFlag{
				Name:  "talkgroup",
				Usage: "Talkgroup ID (for split-join buffering)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json",
				Value:   "console",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errProcessArgs, cmd.NArg())
			}

			filePath := cmd.Args().First()

			profileCatalog, err := loadCatalog(cmd.String("catalog"))
			if err != nil {
				return err
			}

			blob, err := os.ReadFile(filePath) //nolint:gosec // CLI tool opens user-specified audio files
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}

			ext := strings.TrimPrefix(filepath.Ext(filePath), ".")

			deps := tonedetect.Deps{
				Codec:     ffmpeg.New(),
				Store:     cooldown.NewStore(),
				Catalog:   profileCatalog,
				SplitJoin: splitjoin.New(10 * time.Minute),
				WorkDir:   cmd.String("work-dir"),
			}

			metadata := types.Metadata{
				StartTime:   time.Now().Unix(),
				TalkgroupID: int64(cmd.Int("talkgroup")),
			}

			result, err := tonedetect.Process(ctx, deps, blob, ext, metadata, cmd.String("stream"), tonedetect.DefaultOptions())
			if err != nil && !errors.Is(err, faults.ErrPending) {
				return fmt.Errorf("processing clip: %w", err)
			}

			return outputResult(filePath, result, cmd.String("format"))
		},
	}
}

func loadCatalog(path string) (*catalog.Static, error) {
	if path == "" {
		return catalog.Load(nil)
	}

	return catalog.LoadFile(path)
}
