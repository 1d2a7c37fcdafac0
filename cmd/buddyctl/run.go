package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/buddykit/buddy"
	"github.com/joshuapare/buddykit/internal/logger"
	"github.com/joshuapare/buddykit/internal/trace"
)

var (
	runCfg    = defaultHeapConfig()
	runVerify bool
)

func init() {
	cmd := newRunCmd()
	addHeapFlags(cmd, &runCfg, true)
	cmd.Flags().BoolVar(&runVerify, "verify", true, "Check heap invariants after every operation")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Replay an allocation script",
		Long: `The run command replays a script of alloc and free operations against a
fresh heap and prints the resulting free lists, statistics and live blocks.

Script format, one operation per line, '#' starts a comment:
  alloc <name> <size> [align]
  free <name>

Example:
  buddyctl run boot.trace --size 4096 --orders 3
  buddyctl run boot.trace --base 0x100000 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(args)
		},
	}
}

type eventJSON struct {
	Line    int    `json:"line,omitempty"`
	Op      string `json:"op"`
	Addr    string `json:"addr,omitempty"`
	Error   string `json:"error,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

type blockJSON struct {
	Name  string `json:"name"`
	Addr  string `json:"addr"`
	Size  uint64 `json:"size"`
	Align uint64 `json:"align"`
}

type runReport struct {
	Region    string      `json:"region"`
	Events    []eventJSON `json:"events"`
	Live      []blockJSON `json:"live"`
	FreeLists []freeList  `json:"free_lists"`
	Stats     buddy.Stats `json:"stats"`
}

func runScript(args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	ops, err := trace.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	printVerbose("Parsed %d operations from %s\n", len(ops), path)

	h, release, err := openHeap(runCfg)
	if err != nil {
		return err
	}
	defer release()

	res, err := trace.Replay(h, ops, func(_ int, ev trace.Event) error {
		if !jsonOut {
			printVerbose("  %s\n", describe(ev))
		}
		if runVerify {
			return h.Verify(nil)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := h.Verify(res.LiveBlocks()); err != nil {
		return fmt.Errorf("%s: final state: %w", path, err)
	}
	logger.Info("replay complete", "script", path, "ops", len(ops), "failed", res.Failed, "live", len(res.Live))

	report := buildRunReport(h, res)
	if jsonOut {
		return printJSON(report)
	}

	printInfo("Replayed %d operations, %d allocation(s) failed\n", len(res.Events), res.Failed)
	for _, ev := range res.Events {
		if ev.Err != nil {
			printInfo("  line %d: %s: %v\n", ev.Op.Line, ev.Op, ev.Err)
		}
	}
	if !quiet {
		fmt.Fprintln(os.Stdout)
		h.PrintStats(os.Stdout)
	}
	printFreeTable(h)
	printInfo("\nLive blocks: %d\n", len(report.Live))
	for _, b := range report.Live {
		printInfo("  %-12s %s  size=%d align=%d\n", b.Name, b.Addr, b.Size, b.Align)
	}
	return nil
}

func buildRunReport(h *buddy.Heap, res *trace.Result) runReport {
	report := runReport{
		Region:    h.Region().String(),
		Events:    make([]eventJSON, 0, len(res.Events)),
		Live:      make([]blockJSON, 0, len(res.Live)),
		FreeLists: freeTable(h),
		Stats:     h.Stats(),
	}
	for _, ev := range res.Events {
		e := eventJSON{Line: ev.Op.Line, Op: ev.Op.String(), Skipped: ev.Skipped}
		if ev.Addr != buddy.NilAddr {
			e.Addr = hexAddr(ev.Addr)
		}
		if ev.Err != nil {
			e.Error = ev.Err.Error()
		}
		report.Events = append(report.Events, e)
	}

	names := make(map[buddy.Addr]string, len(res.Live))
	for name, b := range res.Live {
		names[b.Addr] = name
	}
	for _, b := range res.LiveBlocks() {
		report.Live = append(report.Live, blockJSON{Name: names[b.Addr], Addr: hexAddr(b.Addr), Size: b.Size, Align: b.Align})
	}
	return report
}

func describe(ev trace.Event) string {
	switch {
	case ev.Skipped:
		return fmt.Sprintf("%s (skipped, allocation failed)", ev.Op)
	case ev.Err != nil:
		return fmt.Sprintf("%s -> %v", ev.Op, ev.Err)
	default:
		return fmt.Sprintf("%s -> %s", ev.Op, hexAddr(ev.Addr))
	}
}
