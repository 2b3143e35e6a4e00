package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/icad-go/tonedetect/internal/types"
)

func profilesCommand() *cli.Command {
	return &cli.Command{
		Name:  "profiles",
		Usage: "List the configured tone profiles in a catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML tone profile catalog",
			},
			&cli.StringFlag{
				Name:    "stream",
				Aliases: []string{"s"},
				Usage:   "Only list this stream scope's profiles (default: every scope)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			profileCatalog, err := loadCatalog(cmd.String("catalog"))
			if err != nil {
				return err
			}

			streams := profileCatalog.Streams()
			if scope := cmd.String("stream"); scope != "" {
				streams = []string{scope}
			}

			for _, scope := range streams {
				printProfiles(scope, profileCatalog.ListProfiles(scope))
			}

			return nil
		},
	}
}

func printProfiles(streamScope string, profiles []types.ToneProfile) {
	fmt.Printf("=== %s ===\n", streamScope)

	if len(profiles) == 0 {
		fmt.Println("  (no profiles configured)")

		return
	}

	for _, p := range profiles {
		if p.HasFourTone() {
			fmt.Printf("  %-20s %-24s A=%.1f B=%.1f C=%.1f D=%.1f tolerance=%.1f%% ignore=%.0fs\n",
				p.ProfileID, p.ProfileName, p.ATone, p.BTone, p.CTone, p.DTone, p.ToneTolerancePercent, p.IgnoreSeconds)

			continue
		}

		fmt.Printf("  %-20s %-24s A=%.1f B=%.1f tolerance=%.1f%% ignore=%.0fs\n",
			p.ProfileID, p.ProfileName, p.ATone, p.BTone, p.ToneTolerancePercent, p.IgnoreSeconds)
	}
}
