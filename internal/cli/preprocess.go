package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/mucprep/internal/cache"
	"github.com/ppiankov/mucprep/internal/locate"
	"github.com/ppiankov/mucprep/internal/pipeline"
	"github.com/ppiankov/mucprep/internal/segment"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	preprocessSplit string
	noCache         bool
)

// preprocessCmd represents the preprocess command
var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Clean documents, split sentences and locate template fillers",
	Long: `Preprocess reads {split}_docs.json and {split}_keys.json from the
semiprocessed directory and writes, under the processed directory:
  {split}/{split}.json                         documents with located templates
  {split}/{split}_unlocatable_entities.json    entity mentions not found in their text
  {split}/{split}_unlocatable_locations.json   location mentions not found in their text

Example:
  mucprep preprocess
  mucprep preprocess --split dev --workers 8`,
	Args: cobra.NoArgs,
	RunE: runPreprocess,
}

func init() {
	rootCmd.AddCommand(preprocessCmd)

	preprocessCmd.Flags().StringVar(&preprocessSplit, "split", "", "split to preprocess (default: all configured splits)")
	preprocessCmd.Flags().Int("workers", 0, "documents processed in parallel")
	preprocessCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the sentence segmentation cache")

	_ = viper.BindPFlag("concurrency.workers", preprocessCmd.Flags().Lookup("workers"))
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	splits, err := splitsFor(cfg, preprocessSplit)
	if err != nil {
		return err
	}
	tables, err := loadFixes(cfg)
	if err != nil {
		return err
	}

	seg, err := segment.New(cfg.Sentences.Segmenter)
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	splitter := segment.NewSplitter(seg, cfg.Sentences.Lowercase, cache.New(cfg.Cache)).WithLogger(log.Logger)
	localizer := locate.NewLocalizer(tables, log.Logger)

	pre := pipeline.NewPreprocessor(splitter, localizer,
		pipeline.WithWorkers(cfg.Concurrency.Workers),
		pipeline.WithIndent(cfg.Output.Indent),
		pipeline.WithLogger(log.Logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, split := range splits {
		files := pipeline.FilesFor(cfg.Paths.Semiprocessed, cfg.Paths.Processed, split)
		res, err := pre.RunSplit(ctx, split, files)
		if err != nil {
			return fmt.Errorf("preprocess %s: %w", split, err)
		}

		fmt.Fprintf(os.Stderr, "%s: %d documents, %d located / %d unlocatable mentions, %d count mismatches -> %s\n",
			split, len(res.Documents), res.Located, res.Unlocated, res.Mismatches, files.Processed)
	}
	return nil
}
