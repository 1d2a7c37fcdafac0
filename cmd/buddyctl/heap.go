package main

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/buddykit/buddy"
	"github.com/joshuapare/buddykit/internal/arena"
	"github.com/joshuapare/buddykit/internal/logger"
)

// heapConfig is the region geometry shared by commands that build a heap.
type heapConfig struct {
	base      uint64
	size      uint64
	orders    int
	trackFree bool
}

func defaultHeapConfig() heapConfig {
	return heapConfig{size: 1 << 20, orders: 8}
}

var numbers = message.NewPrinter(language.English)

func addHeapFlags(cmd *cobra.Command, cfg *heapConfig, withHeap bool) {
	cmd.Flags().Uint64Var(&cfg.size, "size", cfg.size, "Region size in bytes (power of two)")
	cmd.Flags().IntVar(&cfg.orders, "orders", cfg.orders, "Number of block size orders")
	if withHeap {
		cmd.Flags().Uint64Var(&cfg.base, "base", cfg.base, "Logical base address (aligned to --size)")
		cmd.Flags().BoolVar(&cfg.trackFree, "track-free", cfg.trackFree, "Keep a free bitmap for O(1) buddy checks")
	}
}

// openHeap maps backing memory and builds a heap over it. The returned
// release func unmaps the memory; the heap must not be used afterwards.
func openHeap(cfg heapConfig) (*buddy.Heap, func() error, error) {
	if cfg.size == 0 || cfg.size > math.MaxInt {
		return nil, nil, fmt.Errorf("region size %d out of range", cfg.size)
	}
	mem, release, err := arena.Map(int(cfg.size))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to map %s: %w", humanize.IBytes(cfg.size), err)
	}

	h, err := buddy.New(buddy.Addr(cfg.base), mem, make([]buddy.Addr, cfg.orders), &buddy.Options{
		Logger:    logger.L,
		TrackFree: cfg.trackFree,
	})
	if err != nil {
		release()
		return nil, nil, err
	}
	printVerbose("Heap: %s\n", h.Region())
	return h, release, nil
}

// freeTable renders the free lists one order per line.
func freeTable(h *buddy.Heap) []freeList {
	r := h.Region()
	var out []freeList
	for k, list := range h.FreeBlocks() {
		out = append(out, freeList{Order: k, BlockSize: r.BlockSize(k), Blocks: hexAddrs(list)})
	}
	return out
}

type freeList struct {
	Order     int      `json:"order"`
	BlockSize uint64   `json:"block_size"`
	Blocks    []string `json:"blocks"`
}

func printFreeTable(h *buddy.Heap) {
	printInfo("\nFree lists:\n")
	for _, fl := range freeTable(h) {
		printInfo("  %2d  %9s  %v\n", fl.Order, humanize.IBytes(fl.BlockSize), fl.Blocks)
	}
}

func hexAddrs(list []buddy.Addr) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = hexAddr(a)
	}
	return out
}

func hexAddr(a buddy.Addr) string {
	if a == buddy.NilAddr {
		return "nil"
	}
	return fmt.Sprintf("0x%X", uint64(a))
}
