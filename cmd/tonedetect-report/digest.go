package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v3"
)

func digestCommand() *cli.Command {
	return &cli.Command{
		Name:      "digest",
		Usage:     "Produce a summary digest from a tonedetect JSONL report",
		ArgsUsage: "<report.jsonl>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "profile",
				Usage: "Show clips matched against a specific profile_id",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New("expected exactly one argument: path to report.jsonl")
			}

			return runDigest(cmd.Args().First(), cmd.String("profile"))
		},
	}
}

func runDigest(reportPath, profileFilter string) error {
	records, err := readRecords(reportPath)
	if err != nil {
		return err
	}

	printDigest(records)

	if profileFilter != "" {
		printProfileDetail(records, profileFilter)
	}

	return nil
}

func readRecords(path string) ([]digestRecord, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified report files
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer file.Close()

	var records []digestRecord

	scanner := bufio.NewScanner(file)

	const maxLineSize = 1024 * 1024
	scanner.Buffer(make([]byte, 0, maxLineSize), maxLineSize)

	for scanner.Scan() {
		var rec digestRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			records = append(records, digestRecord{Error: "parse error"})

			continue
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	return records, nil
}

func printDigest(records []digestRecord) {
	total := len(records)
	failed := 0
	noTones := 0
	fired := 0
	suppressed := 0
	profileFired := map[string]int{}

	for _, rec := range records {
		if rec.Error != "" {
			failed++

			continue
		}

		if rec.QuickCalls == 0 && rec.LongTones == 0 && rec.HiLowTones == 0 && rec.DtmfTones == 0 {
			noTones++
		}

		for _, m := range rec.Matches {
			if m.WasSuppressed {
				suppressed++

				continue
			}

			fired++
			profileFired[m.ProfileName]++
		}
	}

	fmt.Println("=== Tonedetect Report Digest ===")
	fmt.Println()
	fmt.Printf("Total clips:     %d\n", total)
	fmt.Printf("Failed:          %d\n", failed)
	fmt.Printf("No tones found:  %d\n", noTones)
	fmt.Println()

	fmt.Println("--- Matches ---")
	fmt.Printf("  Fired:        %d\n", fired)
	fmt.Printf("  Suppressed:   %d\n", suppressed)
	fmt.Println()

	fmt.Println("--- Fired By Profile ---")

	type entry struct {
		name  string
		count int
	}

	entries := make([]entry, 0, len(profileFired))
	for name, count := range profileFired {
		entries = append(entries, entry{name, count})
	}

	slices.SortFunc(entries, func(a, b entry) int { return b.count - a.count })

	for _, e := range entries {
		fmt.Printf("  %s: %d\n", e.name, e.count)
	}
}

func printProfileDetail(records []digestRecord, profileID string) {
	fmt.Println()

	var matched []string

	for _, rec := range records {
		for _, m := range rec.Matches {
			if m.ProfileID == profileID && !m.WasSuppressed {
				matched = append(matched, rec.File)

				break
			}
		}
	}

	if len(matched) == 0 {
		fmt.Printf("No clips fired for profile %s\n", profileID)

		return
	}

	fmt.Printf("=== %s: %d clips ===\n\n", profileID, len(matched))

	for _, file := range matched {
		fmt.Printf("  %s\n", file)
	}
}
