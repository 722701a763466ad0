// Command levelcheck inspects level catalog files before they are served.
//
//	levelcheck validate [dir]   parse every catalog and report load errors
//	levelcheck analyze [dir]    print per-level heuristics: free cells, piece area, dead regions
//
// dir defaults to ./catalogs. Pass --builtin to include the catalog compiled
// into the server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/grid-puzzle/game/config"
	"github.com/wricardo/grid-puzzle/game/engine"
)

const defaultDir = "catalogs"

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Info holds a short summary; otherwise Errors lists every
// problem found.
type ValidationResult struct {
	File   string
	Valid  bool
	Info   []string
	Errors []string
}

// LevelReport summarises one level
type LevelReport struct {
	Number      int
	BoardSize   int
	FreeCells   int
	PieceArea   int
	Smallest    int
	Regions     int
	DeadCells   int
	Unplaceable []int       // piece ids that fit nowhere in any orientation
	Anchors     map[int]int // piece id -> anchors in the initial orientation
}

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "levelcheck:", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer) *cli.Command {
	builtin := &cli.BoolFlag{
		Name:  "builtin",
		Usage: "also check the built-in classic catalog",
	}

	return &cli.Command{
		Name:   "levelcheck",
		Usage:  "validate and analyze grid puzzle level catalogs",
		Writer: w,
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "parse catalogs and report load errors",
				ArgsUsage: "[dir]",
				Flags:     []cli.Flag{builtin},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runValidate(w, catalogDir(cmd), cmd.Bool("builtin"))
				},
			},
			{
				Name:      "analyze",
				Usage:     "print per-level heuristics",
				ArgsUsage: "[dir]",
				Flags:     []cli.Flag{builtin},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runAnalyze(w, catalogDir(cmd), cmd.Bool("builtin"))
				},
			},
		},
	}
}

func catalogDir(cmd *cli.Command) string {
	if dir := cmd.Args().First(); dir != "" {
		return dir
	}
	return defaultDir
}

// catalogFiles lists the catalog files in dir in name order
func catalogFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !config.IsCatalogFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// validateCatalog summarises a parsed catalog. Parsing already rejects
// levels whose pieces cannot fit; here the remaining dead-region warnings
// are collected.
func validateCatalog(name string, catalog *engine.Catalog) ValidationResult {
	result := ValidationResult{File: name, Valid: true}

	pieces := 0
	var warnings []string
	for _, level := range catalog.Levels {
		pieces += len(level.Pieces)

		report := analyzeLevel(level)
		if report.DeadCells > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"⚠️  level %d: %d free cells can never be covered", level.Number, report.DeadCells))
		}
	}

	result.Info = append(result.Info,
		fmt.Sprintf("Name: %s", catalog.Name),
		fmt.Sprintf("Levels: %d, Pieces: %d", catalog.Len(), pieces),
		fmt.Sprintf("Rotation: %s", catalog.RotationPolicy))
	result.Info = append(result.Info, warnings...)
	return result
}

// validateFile loads and validates a single catalog file
func validateFile(path string) ValidationResult {
	catalog, err := config.ReadCatalogFile(path)
	if err != nil {
		return ValidationResult{
			File:   filepath.Base(path),
			Errors: []string{err.Error()},
		}
	}
	return validateCatalog(filepath.Base(path), catalog)
}

func runValidate(w io.Writer, dir string, builtin bool) error {
	files, err := catalogFiles(dir)
	if err != nil && !builtin {
		return fmt.Errorf("finding catalog files: %w", err)
	}

	var results []ValidationResult
	if builtin {
		results = append(results, validateCatalog("(built-in) "+config.BuiltinCatalog, engine.DefaultCatalog()))
	}
	for _, file := range files {
		results = append(results, validateFile(file))
	}

	invalid := 0
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}
		invalid++
		fmt.Fprintln(w, "❌ INVALID")
		for _, e := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+e)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if invalid > 0 {
		fmt.Fprintln(w, "❌ Some catalogs have errors")
		return fmt.Errorf("%d of %d catalogs are invalid", invalid, len(results))
	}
	fmt.Fprintln(w, "✅ All catalogs are valid!")
	return nil
}

// analyzeLevel computes the heuristics for a level's starting board
func analyzeLevel(level engine.Level) LevelReport {
	board := engine.NewBoard(level)
	smallest := engine.SmallestPiece(level.Pieces)

	report := LevelReport{
		Number:    level.Number,
		BoardSize: board.Size(),
		FreeCells: board.EmptyCount(),
		PieceArea: engine.PieceArea(level.Pieces),
		Smallest:  smallest,
		Regions:   len(engine.FreeRegions(board)),
		Anchors:   make(map[int]int, len(level.Pieces)),
	}

	if smallest > 0 {
		for _, region := range engine.DeadRegions(board, smallest) {
			report.DeadCells += len(region)
		}
	}

	for _, piece := range level.Pieces {
		report.Anchors[piece.ID] = engine.CountPlacements(board, piece.Shape)
		if !engine.FitsAnywhere(board, piece.Shape) {
			report.Unplaceable = append(report.Unplaceable, piece.ID)
		}
	}
	return report
}

func printCatalogAnalysis(w io.Writer, name string, catalog *engine.Catalog) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", name)
	fmt.Fprintf(w, "Name: %s\n", catalog.Name)
	fmt.Fprintf(w, "Rotation: %s\n", catalog.RotationPolicy)

	for _, level := range catalog.Levels {
		r := analyzeLevel(level)
		fmt.Fprintf(w, "\nLevel %d (%dx%d): %s\n", r.Number, r.BoardSize, r.BoardSize, level.Description)
		fmt.Fprintf(w, "  Free cells: %d, piece area: %d, slack: %d\n", r.FreeCells, r.PieceArea, r.FreeCells-r.PieceArea)
		fmt.Fprintf(w, "  Free regions: %d, smallest piece: %d cells\n", r.Regions, r.Smallest)

		ids := make([]int, 0, len(r.Anchors))
		for id := range r.Anchors {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			fmt.Fprintf(w, "  Piece %d: %d anchors\n", id, r.Anchors[id])
		}

		if r.DeadCells > 0 {
			fmt.Fprintf(w, "⚠️  WARNING: %d free cells sit in regions smaller than the smallest piece\n", r.DeadCells)
		}
		switch {
		case r.PieceArea > r.FreeCells:
			fmt.Fprintf(w, "⚠️  CRITICAL: pieces need %d cells but only %d are free\n", r.PieceArea, r.FreeCells)
		case len(r.Unplaceable) > 0:
			fmt.Fprintf(w, "⚠️  CRITICAL: pieces %v fit nowhere\n", r.Unplaceable)
		default:
			fmt.Fprintln(w, "✅ No obvious dead ends")
		}
	}
}

func runAnalyze(w io.Writer, dir string, builtin bool) error {
	files, err := catalogFiles(dir)
	if err != nil && !builtin {
		return fmt.Errorf("finding catalog files: %w", err)
	}

	if builtin {
		printCatalogAnalysis(w, "(built-in) "+config.BuiltinCatalog, engine.DefaultCatalog())
	}
	for _, file := range files {
		catalog, err := config.ReadCatalogFile(file)
		if err != nil {
			fmt.Fprintf(w, "\n=== Analyzing %s ===\nError: %v\n", filepath.Base(file), err)
			continue
		}
		printCatalogAnalysis(w, filepath.Base(file), catalog)
	}
	return nil
}
