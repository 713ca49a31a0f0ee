package main

import (
	"fmt"

	"github.com/ChicagoDave/ridemap/pkg/routing"
	"github.com/ChicagoDave/ridemap/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.SpecPath != "" {
				fmt.Printf("    -> %s = %v\n", e.SpecPath, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			if e.ConflictWith != "" {
				fmt.Printf("    conflicts with: %s\n", e.ConflictWith)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.SpecPath != "" {
				fmt.Printf("    -> %s = %v\n", w.SpecPath, w.ActualValue)
			}
			if w.ConflictWith != "" {
				fmt.Printf("    conflicts with: %s\n", w.ConflictWith)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printRoute(r routing.Route, t routing.Tunables) {
	sum := routing.Summarize(r)

	fmt.Println("Grid Route")
	fmt.Println("==========")
	fmt.Println()
	fmt.Printf("%-4s %10s %10s %10s\n", "#", "X", "Y", "Leg")
	fmt.Printf("%-4s %10s %10s %10s\n", "----", "----------", "----------", "----------")
	for i, p := range r {
		leg := 0.0
		if i > 0 {
			leg = r[i-1].Distance(p)
		}
		fmt.Printf("%-4d %10.1f %10.1f %10s\n", i, p.X, p.Y, formatDistance(leg))
	}

	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("-------")
	fmt.Printf("  Points:   %d\n", sum.Points)
	fmt.Printf("  Turns:    %d\n", sum.Turns)
	fmt.Printf("  Length:   %s\n", formatDistance(sum.Length))
	fmt.Printf("  Bounds:   (%.0f, %.0f) - (%.0f, %.0f)\n", sum.Min.X, sum.Min.Y, sum.Max.X, sum.Max.Y)
	fmt.Printf("  Tunables: blend %.2f, jog %.0f, snap %.0f\n", t.Blend, t.JogThreshold, t.SnapThreshold)
}

func formatDistance(v float64) string {
	if v >= 1_000 {
		return fmt.Sprintf("%.2fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}
