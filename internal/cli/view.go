package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/ppiankov/mucprep/internal/model"
	"github.com/ppiankov/mucprep/internal/pipeline"
	"github.com/ppiankov/mucprep/internal/util"
	"github.com/ppiankov/mucprep/internal/view"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	viewSplit          string
	viewMode           string
	viewTemplateType   string
	viewKeepIrrelevant bool
	viewOutfile        string
)

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Pretty-print documents with their gold templates",
	Long: `View prints each document's text followed by its templates.

Modes:
  interactive   page through documents: n(ext), p(revious), q(uit), g <id>
  to_file       print every selected document to --outfile

Example:
  mucprep view --split dev --template-type kidnapping
  mucprep view --split test --viewing-mode to_file --outfile test.txt`,
	Args: cobra.NoArgs,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&viewSplit, "split", "train", "split to view")
	viewCmd.Flags().StringVar(&viewMode, "viewing-mode", "interactive", "interactive or to_file")
	viewCmd.Flags().StringVar(&viewTemplateType, "template-type", "", "only show templates of this incident type ("+strings.Join(model.IncidentTypes, ", ")+")")
	viewCmd.Flags().BoolVar(&viewKeepIrrelevant, "keep-irrelevant", false, "also print documents that do not have any annotated templates")
	viewCmd.Flags().StringVar(&viewOutfile, "outfile", "stdout", "output file for to_file mode")
}

func runView(cmd *cobra.Command, args []string) (err error) {
	if viewMode != "interactive" && viewMode != "to_file" {
		return fmt.Errorf("unknown viewing mode %q (interactive, to_file)", viewMode)
	}
	if viewTemplateType != "" && !slices.Contains(model.IncidentTypes, strings.ToLower(viewTemplateType)) {
		return fmt.Errorf("unknown template type %q", viewTemplateType)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := splitsFor(cfg, viewSplit); err != nil {
		return err
	}

	files := pipeline.FilesFor(cfg.Paths.Semiprocessed, cfg.Paths.Processed, viewSplit)
	var docs model.RawDocuments
	if err := util.ReadJSON(files.Docs, &docs); err != nil {
		return err
	}
	var keys model.TemplatesByDoc
	if err := util.ReadJSON(files.Keys, &keys); err != nil {
		return err
	}

	sel, err := view.Select(docs, keys, viewTemplateType, viewKeepIrrelevant)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if viewMode == "to_file" && viewOutfile != "stdout" {
		f, err := os.Create(viewOutfile)
		if err != nil {
			return fmt.Errorf("create outfile: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close outfile: %w", closeErr)
			}
		}()
		out = f
	}

	fmt.Fprintln(os.Stderr, sel.Banner(viewTemplateType, viewKeepIrrelevant))
	printer := view.NewPrinter(out, log.Logger)

	if viewMode == "to_file" {
		sel.Dump(printer)
		return nil
	}
	return view.NewViewer(sel, os.Stdin, out, printer).Run()
}
