package main

import (
	"fmt"
	"os"
	"path/filepath"

	"dirsize/internal/compare"
	"dirsize/internal/hash"
	"dirsize/internal/query"
	"dirsize/internal/transcript"
	"dirsize/internal/tree"
	"dirsize/internal/walker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var solveCmd = &cobra.Command{
	Use:   "solve <transcript>",
	Short: "Answer the bounded-sum and minimum-deletion queries",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

var sizesCmd = &cobra.Command{
	Use:   "sizes <transcript>",
	Short: "Print the aggregate size of every directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runSizes,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <transcript> [output.json]",
	Short: "Save the reconstructed tree as a JSON snapshot",
	Long: `Saves the reconstructed tree as JSON. Without an output path the
snapshot is written to <output_dir>/<manifest>.json, where manifest is the
Merkle root of the directory size table.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSnapshot,
}

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare directory sizes between two transcripts or snapshots",
	Long: `Compares two trees and lists directories that were added, deleted or
changed size. Either side may be a transcript or a .json snapshot.

Exits with status 1 when changes are found.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

var recordCmd = &cobra.Command{
	Use:   "record <directory> [output]",
	Short: "Write a transcript that explores a real directory",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runRecord,
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root, err := loadTree(args[0], cfg)
	if err != nil {
		return err
	}
	table := tree.Aggregate(root)

	out := cmd.OutOrStdout()
	ans, err := query.Solve(table, cfg.Params)
	fmt.Fprintf(out, "Directories: %d, used %s (%d)\n", len(table), tree.FormatSize(ans.Used), ans.Used)
	fmt.Fprintf(out, "The sum of the directory sizes below %d is %d\n", cfg.Threshold, ans.BoundedSum)

	if ans.Deficit <= 0 {
		fmt.Fprintf(out, "Nothing needs deleting: %d bytes free beyond the target\n", -ans.Deficit)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find a directory to delete: %w", err)
	}
	fmt.Fprintf(out, "The smallest directory freeing at least %d is %d\n", ans.Deficit, ans.MinFeasible)
	return nil
}

func runSizes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root, err := loadTree(args[0], cfg)
	if err != nil {
		return err
	}
	table := tree.Aggregate(root)

	out := cmd.OutOrStdout()
	for _, path := range table.Paths() {
		display := path
		if display == "" {
			display = "/"
		}
		fmt.Fprintf(out, "%s %d\n", display, table[path])
	}
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root, err := loadTree(args[0], cfg)
	if err != nil {
		return err
	}

	manifest, err := hash.ManifestRoot(tree.Aggregate(root))
	if err != nil {
		return err
	}

	outputPath := filepath.Join(cfg.OutputDir, manifest+".json")
	if len(args) == 2 {
		outputPath = args[1]
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := tree.Save(tree.NewSnapshot(root, manifest), outputPath); err != nil {
		return fmt.Errorf("failed to save tree: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Snapshot saved\n")
	fmt.Fprintf(out, "  Manifest: %s\n", manifest)
	fmt.Fprintf(out, "  Size: %s\n", tree.FormatSize(root.TotalSize()))
	fmt.Fprintf(out, "  Output: %s\n", outputPath)
	return nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var oldTree, newTree *tree.Directory
	var g errgroup.Group
	g.Go(func() error {
		var err error
		oldTree, err = loadTree(args[0], cfg)
		return err
	})
	g.Go(func() error {
		var err error
		newTree, err = loadTree(args[1], cfg)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	result := compare.Compare(oldTree, newTree)
	fmt.Fprintln(cmd.OutOrStdout(), compare.FormatReport(result))

	if result.HasChanges() {
		return errChangesDetected
	}
	return nil
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	absDirectory, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	result, err := walker.Record(absDirectory, cfg.Exclude)
	if err != nil {
		return fmt.Errorf("failed to record directory: %w", err)
	}
	for _, walkErr := range result.Errors {
		logger.Warn("skipped entry", zap.Error(walkErr))
	}

	out := cmd.OutOrStdout()
	if len(args) == 2 {
		file, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := transcript.Write(out, result.Events); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Recorded %d files in %d directories from %s\n",
		result.Files, result.Dirs+1, absDirectory)
	if len(result.Errors) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Skipped %d entries due to errors\n", len(result.Errors))
	}
	return nil
}
