package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/mucprep/internal/llm"
	"github.com/ppiankov/mucprep/internal/model"
	"github.com/ppiankov/mucprep/internal/pipeline"
	"github.com/ppiankov/mucprep/internal/skeleton"
	"github.com/ppiankov/mucprep/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var skeletonDraft bool

// skeletonCmd represents the skeleton command
var skeletonCmd = &cobra.Command{
	Use:   "skeleton <output_dir>",
	Short: "Write summary annotation skeletons for every split",
	Long: `Skeleton writes {split}_to_annotate.json for every configured split:
one entry per gold template with message_template, incident_type and an
empty summary. Documents without incidents are left out.

With --draft, summaries are pre-filled by the configured LLM provider.
Drafts are suggestions for annotators and must be reviewed.

Example:
  mucprep skeleton annotation/summaries
  OPENAI_API_KEY=sk-... mucprep skeleton out --draft --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runSkeleton,
}

func init() {
	rootCmd.AddCommand(skeletonCmd)

	skeletonCmd.Flags().BoolVar(&skeletonDraft, "draft", false, "draft summaries with an LLM")
	skeletonCmd.Flags().String("llm-provider", "", "LLM provider (openai, ollama)")
	skeletonCmd.Flags().String("llm-model", "", "LLM model name")

	_ = viper.BindPFlag("llm.provider", skeletonCmd.Flags().Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.model", skeletonCmd.Flags().Lookup("llm-model"))
}

func runSkeleton(cmd *cobra.Command, args []string) error {
	outputDir := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := []skeleton.Option{skeleton.WithLogger(log.Logger)}
	if skeletonDraft {
		summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return err
		}
		if !summarizer.IsEnabled() {
			return fmt.Errorf("--draft needs an LLM provider (--llm-provider or llm.provider in config)")
		}
		opts = append(opts, skeleton.WithDrafter(summarizer.WithLogger(log.Logger)))
	}
	gen := skeleton.NewGenerator(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, split := range cfg.Paths.Splits {
		files := pipeline.FilesFor(cfg.Paths.Semiprocessed, cfg.Paths.Processed, split)
		var keys model.TemplatesByDoc
		if err := util.ReadJSON(files.Keys, &keys); err != nil {
			return err
		}
		var docs model.RawDocuments
		if skeletonDraft {
			if err := util.ReadJSON(files.Docs, &docs); err != nil {
				return err
			}
		}

		sk, total, err := gen.Generate(ctx, keys, docs)
		if err != nil {
			return fmt.Errorf("skeleton %s: %w", split, err)
		}

		out := skeleton.OutputPath(outputDir, split)
		fmt.Fprintf(os.Stderr, "Writing %d for %s split to %s...\n", total, split, out)
		if err := skeleton.Write(out, sk); err != nil {
			return err
		}
	}
	return nil
}
