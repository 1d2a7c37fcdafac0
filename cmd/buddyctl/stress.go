package main

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/joshuapare/buddykit/buddy"
	"github.com/joshuapare/buddykit/internal/logger"
	"github.com/joshuapare/buddykit/internal/trace"
	"github.com/joshuapare/buddykit/internal/workload"
)

var (
	stressCfg     = defaultHeapConfig()
	stressSeed    int64
	stressOps     int
	stressMaxSize uint64
	stressEvery   int
	stressProfile string
	stressDump    string
)

func init() {
	cmd := newStressCmd()
	addHeapFlags(cmd, &stressCfg, true)
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Workload seed")
	cmd.Flags().IntVar(&stressOps, "ops", 10000, "Number of generated operations before draining")
	cmd.Flags().Uint64Var(&stressMaxSize, "max-size", 0, "Largest request size (default: region size / 16)")
	cmd.Flags().IntVar(&stressEvery, "verify-every", 1, "Check invariants every N operations (0 disables)")
	cmd.Flags().StringVar(&stressProfile, "profile", "", "Write a cpu or mem profile to the current directory")
	cmd.Flags().StringVar(&stressDump, "dump", "", "Write the generated script to this file")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Run a random allocation workload with invariant checks",
		Long: `The stress command generates a reproducible random workload, replays it
against a fresh heap, checks the heap invariants as it goes, then frees every
live block and requires the region to coalesce back into a single block.

Example:
  buddyctl stress --seed 7 --ops 50000
  buddyctl stress --track-free --profile cpu
  buddyctl stress --seed 3 --dump failing.trace`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
}

type stressReport struct {
	Seed       int64         `json:"seed"`
	Ops        int           `json:"ops"`
	Failed     int           `json:"failed"`
	Splits     int           `json:"splits"`
	Merges     int           `json:"merges"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Coalesced  bool          `json:"coalesced"`
	ScriptPath string        `json:"script,omitempty"`
}

func runStress() error {
	switch stressProfile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile %q (want cpu or mem)", stressProfile)
	}

	maxSize := stressMaxSize
	if maxSize == 0 {
		maxSize = stressCfg.size / 16
	}
	ops := workload.Drain(workload.Generate(stressSeed, stressOps, maxSize))

	if stressDump != "" {
		if err := dumpScript(stressDump, ops); err != nil {
			return err
		}
		printVerbose("Wrote %d operations to %s\n", len(ops), stressDump)
	}

	h, release, err := openHeap(stressCfg)
	if err != nil {
		return err
	}
	defer release()
	initial := h.FreeBlocks()

	start := time.Now()
	res, err := trace.Replay(h, ops, func(i int, _ trace.Event) error {
		if stressEvery > 0 && i%stressEvery == 0 {
			return h.Verify(nil)
		}
		return nil
	})
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("seed %d: %w", stressSeed, err)
	}

	s := h.Stats()
	report := stressReport{
		Seed:       stressSeed,
		Ops:        len(res.Events),
		Failed:     res.Failed,
		Splits:     s.Splits,
		Merges:     s.Merges,
		Elapsed:    elapsed,
		Coalesced:  sameTable(initial, h.FreeBlocks()),
		ScriptPath: stressDump,
	}
	logger.Info("stress complete", "seed", stressSeed, "ops", report.Ops, "failed", report.Failed, "elapsed", elapsed)

	if jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printInfo("Seed %d: %s operations in %s, %s allocation(s) failed\n",
			report.Seed, numbers.Sprintf("%d", report.Ops), elapsed.Round(time.Microsecond),
			numbers.Sprintf("%d", report.Failed))
		printInfo("  splits: %s, merges: %s\n", numbers.Sprintf("%d", report.Splits), numbers.Sprintf("%d", report.Merges))
	}

	if !report.Coalesced {
		printFreeTable(h)
		return fmt.Errorf("seed %d: heap did not coalesce back to a single block", stressSeed)
	}
	return nil
}

func dumpScript(path string, ops []trace.Op) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create script: %w", err)
	}
	if err := trace.Write(f, ops); err != nil {
		f.Close()
		return fmt.Errorf("failed to write script: %w", err)
	}
	return f.Close()
}

func sameTable(a, b [][]buddy.Addr) bool {
	return slices.EqualFunc(a, b, func(x, y []buddy.Addr) bool { return slices.Equal(x, y) })
}
