package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fakenews/internal/classifier"
	"fakenews/internal/config"
	"fakenews/internal/detector"
	"fakenews/internal/keyword"
	"fakenews/internal/model"
)

type textClassifier interface {
	Predict(ctx context.Context, text string) (*detector.Prediction, error)
	Analyze(ctx context.Context, text string) (*detector.Detail, error)
}

// opener builds the classifier and keyword scorer from a config file. The
// returned func releases the model.
type opener func(ctx context.Context, configPath string) (textClassifier, *keyword.Scorer, func(), error)

type keywordResult struct {
	Result      any    `json:"result"`
	KeywordFlag bool   `json:"keyword_flag"`
	Term        string `json:"keyword_term,omitempty"`
}

func newRootCmd(open opener) *cobra.Command {
	var (
		configPath string
		detailed   bool
		keywords   bool
	)

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify text as fake or real news",
		Long:  "Classify text given as arguments, or read from stdin when no arguments are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			tc, scorer, release, err := open(ctx, configPath)
			if err != nil {
				return err
			}
			defer release()

			var result any
			if detailed {
				result, err = tc.Analyze(ctx, text)
			} else {
				result, err = tc.Predict(ctx, text)
			}
			if err != nil {
				return err
			}

			if keywords {
				term, ok := scorer.Match(text)
				result = keywordResult{Result: result, KeywordFlag: ok, Term: term}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "print the detailed result with the numeric confidence")
	cmd.Flags().BoolVar(&keywords, "keywords", false, "also report the keyword heuristic flag")

	return cmd
}

func openModel(ctx context.Context, configPath string) (textClassifier, *keyword.Scorer, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	handle := model.Open(cfg.Model, nil, 0, logger)

	initCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := handle.Init(initCtx); err != nil {
		logger.Warn("model unavailable, confidence will be 0", "error", err)
	}

	fakeNews := classifier.NewFakeNews(classifier.NewAdapter(handle, cfg.Model.Timeout, logger))
	det := detector.New(fakeNews, handle, cfg.Model.Name, logger)

	return det, keyword.NewScorer(cfg.Keyword.Lexicon), func() { handle.Close() }, nil
}

func main() {
	if err := newRootCmd(openModel).Execute(); err != nil {
		os.Exit(1)
	}
}
