package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/mucprep/internal/keys"
	"github.com/ppiankov/mucprep/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// keysCmd represents the keys command
var keysCmd = &cobra.Command{
	Use:   "keys <input> <output>",
	Short: "Parse MUC key files into templates JSON",
	Long: `Parse a MUC answer-key file, or every key-* file in a directory, into
a JSON object mapping document ids to their templates.

Example:
  mucprep keys data/raw/keys/dev data/semiprocessed/dev/dev_keys.json`,
	Args: cobra.ExactArgs(2),
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tables, err := loadFixes(cfg)
	if err != nil {
		return err
	}

	files, err := keys.CollectKeyFiles(input)
	if err != nil {
		return err
	}
	log.Debug().Strs("files", files).Msg("parsing key files")

	parser := keys.NewParser(
		keys.WithColumnWidth(cfg.Keys.ColumnWidth),
		keys.WithFixes(tables),
		keys.WithLogger(log.Logger),
	)
	templates, err := parser.ParseFiles(files)
	if err != nil {
		return fmt.Errorf("parse keys: %w", err)
	}

	if err := util.WriteJSON(output, templates, cfg.Output.Indent); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote templates for %d documents to %s\n", len(templates), output)
	return nil
}
