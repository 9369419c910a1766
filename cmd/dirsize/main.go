package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dirsize/internal/config"
	"dirsize/internal/transcript"
	"dirsize/internal/tree"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	verbose    bool
	strict     bool
	threshold  int64
	capacity   int64
	targetFree int64

	logger = zap.NewNop()
)

// errChangesDetected makes diff exit with status 1 without printing an error.
var errChangesDetected = errors.New("changes detected")

var rootCmd = &cobra.Command{
	Use:   "dirsize",
	Short: "Reconstruct a directory tree from a shell transcript and size it",
	Long: `dirsize replays a transcript of "$ cd" and "$ ls" commands and their
output, rebuilds the directory tree it describes, and reports aggregate
directory sizes.

The default queries are the sum of all directory sizes below a threshold
and the smallest directory whose deletion frees enough space to reach a
free-space target.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logConfig := zap.NewProductionConfig()
		logConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := logConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "dirsize.yaml", "Config file path")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&strict, "strict", false, "Fail on unrecognized transcript lines instead of skipping them")
	flags.Int64Var(&threshold, "threshold", 0, "Upper bound (exclusive) for the bounded-sum query")
	flags.Int64Var(&capacity, "capacity", 0, "Total disk capacity")
	flags.Int64Var(&targetFree, "target-free", 0, "Free space required after deletion")

	rootCmd.AddCommand(solveCmd, sizesCmd, snapshotCmd, diffCmd, recordCmd)
}

// loadConfig reads the config file and applies flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("strict") {
		cfg.Strict = strict
	}
	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}
	if flags.Changed("capacity") {
		cfg.Capacity = capacity
	}
	if flags.Changed("target-free") {
		cfg.TargetFree = targetFree
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// loadTree builds a tree from a transcript, or loads it from a saved
// snapshot when path ends in .json.
func loadTree(path string, cfg *config.Config) (*tree.Directory, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		snapshot, err := tree.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
		return snapshot.Tree, nil
	}

	events, err := transcript.ParseFile(path,
		transcript.WithStrict(cfg.Strict),
		transcript.WithLogger(logger.With(zap.String("transcript", path))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}

	root, err := tree.Build(events, tree.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}

	logger.Debug("built tree", zap.String("transcript", path), zap.Int("events", len(events)))
	return root, nil
}

func main() {
	err := rootCmd.Execute()
	if errors.Is(err, errChangesDetected) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
