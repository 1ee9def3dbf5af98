package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/rumorscope/internal/model"
	"github.com/ppiankov/rumorscope/internal/pipeline"
)

var (
	checkLang    string
	checkSimple  bool
	checkJSON    bool
	checkURL     string
	checkNoStore bool
	checkTimeout time.Duration
	checkWidth   int
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Check one piece of text for misinformation risk",
	Long: `Check runs the full assessment on one text:
- Extract claims and detect manipulation patterns
- Look up fact-checks and authoritative health sources
- Score the risk and explain it, with a lesson on spotting similar content

The text is read from the argument, from --url, or from stdin.

Example:
  rumorscope check "Drinking hot water cures dengue in 24 hours!!!"
  echo "Miracle cure for diabetes" | rumorscope check --lang hi
  rumorscope check --url https://example.com/post/123 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkLang, "lang", model.DefaultLanguage, "language for the explanation and lesson")
	checkCmd.Flags().BoolVar(&checkSimple, "simple", false, "only risk, explanation and lesson")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the API response JSON instead of rendered markdown")
	checkCmd.Flags().StringVar(&checkURL, "url", "", "fetch the post text from this URL")
	checkCmd.Flags().BoolVar(&checkNoStore, "no-store", false, "do not record the check")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", time.Minute, "overall check timeout")
	checkCmd.Flags().IntVar(&checkWidth, "width", 80, "word wrap width for rendered markdown")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	text, err := inputText(ctx, cfg, args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	p, err := buildPipeline(cfg, !checkNoStore)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	level := model.ReturnDetailed
	if checkSimple {
		level = model.ReturnSimple
	}

	result, err := p.Check(ctx, model.CheckRequest{Text: text, Lang: checkLang, ReturnLevel: level})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if checkJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Project(level))
	}

	printResult(out, result, checkSimple, checkWidth)
	return nil
}

// inputText resolves the text to check from --url, the argument or stdin
func inputText(ctx context.Context, cfg *model.Config, args []string, stdin io.Reader) (string, error) {
	switch {
	case checkURL != "":
		f := pipeline.NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, 0, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
		page, err := f.FetchWithRetry(ctx, checkURL)
		if err != nil {
			return "", fmt.Errorf("fetch %s: %w", checkURL, err)
		}
		if strings.TrimSpace(page.Text) == "" {
			return "", fmt.Errorf("no post text found at %s", checkURL)
		}
		return page.Text, nil

	case len(args) == 1:
		return args[0], nil

	default:
		if f, ok := stdin.(*os.File); ok {
			if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
				return "", errors.New("no text given: pass it as an argument, with --url, or on stdin")
			}
		}
		data, err := io.ReadAll(io.LimitReader(stdin, 1<<20))
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}
