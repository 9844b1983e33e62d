package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/mucprep/internal/model"
	"github.com/ppiankov/mucprep/internal/mturk"
	"github.com/ppiankov/mucprep/internal/pipeline"
	"github.com/ppiankov/mucprep/internal/util"
	"github.com/spf13/cobra"
)

var (
	mturkSplit   string
	mturkVariant string
	mturkOutput  string
)

// mturkCmd represents the mturk command
var mturkCmd = &cobra.Command{
	Use:   "mturk",
	Short: "Render a processed split as crowd annotation HITs",
	Long: `Render one HIT row per template of a processed split.

Variants:
  evidential   sentences with HTML-escaped text and the template
  anchors      token-indexed sentences with char/token alignments

Example:
  mucprep mturk --split dev --variant anchors --output-csv hits/dev.csv`,
	Args: cobra.NoArgs,
	RunE: runMTurk,
}

func init() {
	rootCmd.AddCommand(mturkCmd)

	mturkCmd.Flags().StringVar(&mturkSplit, "split", "", "split to render")
	mturkCmd.Flags().StringVar(&mturkVariant, "variant", string(mturk.Evidential), "HIT variant (evidential, anchors)")
	mturkCmd.Flags().StringVar(&mturkOutput, "output-csv", "", "the name of the CSV file to output")
	_ = mturkCmd.MarkFlagRequired("split")
	_ = mturkCmd.MarkFlagRequired("output-csv")
}

func runMTurk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := splitsFor(cfg, mturkSplit); err != nil {
		return err
	}
	variant, err := mturk.ParseVariant(mturkVariant)
	if err != nil {
		return err
	}

	files := pipeline.FilesFor(cfg.Paths.Semiprocessed, cfg.Paths.Processed, mturkSplit)
	var docs model.ProcessedDocuments
	if err := util.ReadJSON(files.Processed, &docs); err != nil {
		return err
	}

	rows, err := mturk.NewRenderer(variant).Rows(docs)
	if err != nil {
		return fmt.Errorf("render HITs: %w", err)
	}
	if err := mturk.WriteCSVFile(mturkOutput, rows); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %d %s HITs to %s\n", len(rows), variant, mturkOutput)
	return nil
}
