// Command csvbench times every parse mode of csvindex over a list of CSV
// files and prints a result table, mirroring the classic parser shoot-out:
// parse each file with the scalar single-worker path, the threaded scalar
// path, and both vector paths, then walk every cell to time random access.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/csvslab/csvindex"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Prefix:          "csvbench",
})

type mode struct {
	name  string
	parse func(p *csvindex.Parser, delim, quote, row byte) error
}

var modes = []mode{
	{"slow", (*csvindex.Parser).Parse},
	{"slow threaded", (*csvindex.Parser).ParseParallel},
	{"v16 threaded", (*csvindex.Parser).ParseParallelV16},
	{"v32 threaded", (*csvindex.Parser).ParseParallelV32},
}

var (
	flagDelim string
	flagQuote string
	flagIters int
	flagWalk  bool
)

func main() {
	root := &cobra.Command{
		Use:   "csvbench <file>...",
		Short: "Benchmark csvindex parse modes over CSV files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,

		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVarP(&flagDelim, "delim", "d", ",", "field delimiter byte")
	root.Flags().StringVarP(&flagQuote, "quote", "q", `"`, "quote byte")
	root.Flags().IntVarP(&flagIters, "iters", "n", 1, "iterations per file and mode")
	root.Flags().BoolVar(&flagWalk, "walk", true, "walk all cells after parsing")

	if err := root.Execute(); err != nil {
		logger.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if len(flagDelim) != 1 || len(flagQuote) != 1 {
		return fmt.Errorf("delim and quote must be single bytes, got %q and %q", flagDelim, flagQuote)
	}
	delim, quote := flagDelim[0], flagQuote[0]

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("File", "Size (MB)", "Cols", "Rows", "Cells", "Mode", "Time (ms)", "MBps")

	for _, path := range args {
		for _, m := range modes {
			if err := benchFile(t, path, m, delim, quote); err != nil {
				logger.Error("parse failed", "file", path, "mode", m.name, "err", err)
			}
		}
	}

	fmt.Println(t)
	return nil
}

func benchFile(t *table.Table, path string, m mode, delim, quote byte) error {
	for i := 0; i < flagIters; i++ {
		start := time.Now()
		p, err := csvindex.New(path)
		if err != nil {
			return err
		}
		if p.Size() == 0 {
			logger.Warn("skipping empty file", "file", path)
			return nil
		}
		if err := m.parse(p, delim, quote, '\n'); err != nil {
			return err
		}
		elapsed := time.Since(start)

		mb := float64(p.Size()) / (1024.0 * 1024.0)
		t.Row(
			path,
			fmt.Sprintf("%.4f", mb),
			fmt.Sprintf("%d", p.Cols()),
			fmt.Sprintf("%d", p.Rows()),
			fmt.Sprintf("%d", p.CellCount()),
			m.name,
			fmt.Sprintf("%.3f", float64(elapsed.Microseconds())/1000.0),
			fmt.Sprintf("%.1f", mb/elapsed.Seconds()),
		)

		if flagWalk {
			if err := walkCells(p, mb); err != nil {
				p.Close()
				return err
			}
		}
		p.Close()
	}
	return nil
}

// walkCells times reading every cell payload back through a CellReader.
func walkCells(p *csvindex.Parser, mb float64) error {
	cr, err := p.NewCellReader()
	if err != nil {
		return err
	}
	defer cr.Close()

	start := time.Now()
	for r := 0; r < p.Rows(); r++ {
		for c := 0; c < p.Cols(); c++ {
			if r*p.Cols()+c >= p.CellCount() {
				break
			}
			if _, err := cr.ReadCell(r, c); err != nil {
				return err
			}
		}
	}
	elapsed := time.Since(start)
	logger.Info("cell walk",
		"cells", p.CellCount(),
		"ms", fmt.Sprintf("%.3f", float64(elapsed.Microseconds())/1000.0),
		"MBps", fmt.Sprintf("%.1f", mb/elapsed.Seconds()))
	return nil
}
