package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/icad-go/tonedetect/internal/types"
)

func outputResult(filePath string, result *types.DetectionResult, format string) error {
	if result == nil {
		fmt.Printf("%s: no result\n", filePath)

		return nil
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(result)
	}

	printConsole(filePath, result)

	return nil
}

func printConsole(filePath string, result *types.DetectionResult) {
	fmt.Printf("=== %s ===\n", filePath)

	if result.Empty() {
		fmt.Println("  no tones detected")

		return
	}

	for _, qc := range result.QuickCalls {
		fmt.Printf("  QuickCall  tone_id=%d exact=(%.1f, %.1f) start=%.2fs\n",
			qc.ToneID, qc.Exact[0], qc.Exact[1], qc.StartTimeS)
	}

	for _, lt := range result.LongTones {
		fmt.Printf("  LongTone   freq=%.1f start=%.2fs end=%.2fs\n", lt.Detected, lt.StartTimeS, lt.EndTimeS)
	}

	for _, hl := range result.HiLowTones {
		fmt.Printf("  HiLow      freqs=(%.1f, %.1f) start=%.2fs end=%.2fs\n",
			hl.Detected[0], hl.Detected[1], hl.StartTimeS, hl.EndTimeS)
	}

	for _, d := range result.DtmfTones {
		fmt.Printf("  DTMF       key=%c start=%.2fs\n", d.Key, d.StartTimeS)
	}

	fmt.Println()

	for _, m := range result.Matches {
		status := "fired"
		if m.WasSuppressed {
			status = "suppressed"
		}

		fmt.Printf("  match: %s (%s) tones=%v [%s]\n", m.ProfileName, m.ProfileID, m.TonesMatched, status)
	}

	for _, seg := range result.Segments {
		fmt.Printf("  segment: %s at %s\n", seg.LocalAudioPath, seg.Timestamp.Format("2006-01-02 15:04:05"))
	}
}
