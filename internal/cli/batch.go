package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ppiankov/rumorscope/internal/worker"
)

var (
	concurrency  int
	batchLang    string
	batchJSONL   bool
	batchNoStore bool
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check many texts from a file in parallel",
	Long: `Batch checks every text in a file concurrently:
- Plain files hold one text per line; blank lines and # comments are skipped
- .yaml/.yml files hold a list of {text, lang} entries
- Duplicate texts are checked once
- One verdict line is printed per text, in file order

Example:
  rumorscope batch posts.txt
  rumorscope batch posts.yaml --concurrency 8 --jsonl > results.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: config batch_workers or CPU count)")
	batchCmd.Flags().StringVar(&batchLang, "lang", "", "language for texts that do not set one")
	batchCmd.Flags().BoolVar(&batchJSONL, "jsonl", false, "print one detailed JSON response per line")
	batchCmd.Flags().BoolVar(&batchNoStore, "no-store", false, "do not record the checks")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.BatchWorkers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	p, err := buildPipeline(cfg, !batchNoStore)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Rumorscope Batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(p, workers)
	outcomes, err := processor.ProcessFile(ctx, file, batchLang)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	failures := 0
	highRisk := 0

	for _, o := range outcomes {
		if o.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", color.RedString("✗"), preview(o.Request.Text, 60), o.Error)
			continue
		}
		if o.Result.Risk.Score >= 70 {
			highRisk++
		}
		if batchJSONL {
			if err := enc.Encode(o.Result.Detailed()); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
			continue
		}
		fmt.Fprintf(out, "%s  %s\n", verdictLine(o.Result), preview(o.Request.Text, 60))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:      %d\n", len(outcomes))
	fmt.Fprintf(os.Stderr, "  High risk:  %d\n", highRisk)
	fmt.Fprintf(os.Stderr, "  Failures:   %d\n", failures)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// preview shortens text to n runes on a single line
func preview(text string, n int) string {
	r := []rune(text)
	for i, c := range r {
		if c == '\n' || c == '\r' || c == '\t' {
			r[i] = ' '
		}
	}
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return string(r)
}
