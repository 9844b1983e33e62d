package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/mucprep/internal/export"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var annotationSet string

// annotateCmd represents the annotate command
var annotateCmd = &cobra.Command{
	Use:   "annotate <input.zip> <output.zip> <predictions.jsonl>",
	Short: "Add predicted templates to an exported archive",
	Long: `Annotate reads model predictions, one JSON object per line mapping a
document id to its predicted templates, and adds them to the matching
communications as a new situation set. Predicted filler strings are matched
against the entity mentions of the annotation set.

Example:
  mucprep annotate data/concrete/uppercase/test.zip out/test.zip preds.jsonl`,
	Args: cobra.ExactArgs(3),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateCmd.Flags().StringVar(&annotationSet, "annotation-set", export.DefaultAnnotationSet, "entity set whose mentions predictions are matched against")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	in, out, predictions := args[0], args[1], args[2]

	annotator := export.NewAnnotator(annotationSet, log.Logger)
	unmatched, err := annotator.AnnotateArchive(in, out, predictions)
	if err != nil {
		return fmt.Errorf("annotate: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %s (%d predicted fillers without a matching mention)\n", out, unmatched)
	return nil
}
