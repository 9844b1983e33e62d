package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/mucprep/internal/texts"
	"github.com/ppiankov/mucprep/internal/util"
	"github.com/spf13/cobra"
)

// textsCmd represents the texts command
var textsCmd = &cobra.Command{
	Use:   "texts <input> <output>",
	Short: "Split raw MUC text files into documents JSON",
	Long: `Split a raw MUC text file, or every file in a directory, into documents
with id, source, dateline, tags and body text.

Example:
  mucprep texts data/raw/texts/dev data/semiprocessed/dev/dev_docs.json`,
	Args: cobra.ExactArgs(2),
	RunE: runTexts,
}

func init() {
	rootCmd.AddCommand(textsCmd)
}

func runTexts(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := texts.CollectTextFiles(input)
	if err != nil {
		return err
	}
	docs, err := texts.SplitFiles(files)
	if err != nil {
		return err
	}

	if err := util.WriteJSON(output, docs, cfg.Output.Indent); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %d documents to %s\n", len(docs), output)
	return nil
}
