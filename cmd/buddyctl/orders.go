package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/buddykit/buddy"
)

var ordersCfg = defaultHeapConfig()

func init() {
	cmd := newOrdersCmd()
	addHeapFlags(cmd, &ordersCfg, false)
	rootCmd.AddCommand(cmd)
}

func newOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "Show the block size of every order for a region",
		Long: `The orders command validates a region geometry and prints the block
size and block count of each order, smallest first.

Example:
  buddyctl orders --size 1048576 --orders 8
  buddyctl orders --size 4096 --orders 3 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrders()
		},
	}
}

type orderRow struct {
	Order     int    `json:"order"`
	BlockSize uint64 `json:"block_size"`
	Blocks    uint64 `json:"blocks"`
}

type ordersReport struct {
	Size         uint64     `json:"size"`
	MinBlockSize uint64     `json:"min_block_size"`
	Orders       []orderRow `json:"orders"`
}

func runOrders() error {
	// A throwaway heap validates the geometry exactly as New would.
	h, release, err := openHeap(ordersCfg)
	if err != nil {
		return err
	}
	defer release()

	report := geometry(h.Region())
	if jsonOut {
		return printJSON(report)
	}

	printInfo("Region: %s (%s bytes)\n", humanize.IBytes(report.Size), numbers.Sprintf("%d", report.Size))
	printInfo("  %-5s  %10s  %15s  %10s\n", "ORDER", "BLOCK", "BYTES", "BLOCKS")
	for _, row := range report.Orders {
		printInfo("  %-5d  %10s  %15s  %10s\n",
			row.Order,
			humanize.IBytes(row.BlockSize),
			numbers.Sprintf("%d", row.BlockSize),
			numbers.Sprintf("%d", row.Blocks))
	}
	return nil
}

func geometry(r buddy.Region) ordersReport {
	report := ordersReport{Size: r.Size, MinBlockSize: r.MinBlockSize}
	for k := 0; k < r.Orders; k++ {
		report.Orders = append(report.Orders, orderRow{
			Order:     k,
			BlockSize: r.BlockSize(k),
			Blocks:    r.Size / r.BlockSize(k),
		})
	}
	return report
}
