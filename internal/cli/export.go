package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/mucprep/internal/export"
	"github.com/ppiankov/mucprep/internal/model"
	"github.com/ppiankov/mucprep/internal/pipeline"
	"github.com/ppiankov/mucprep/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	exportSplit     string
	exportLowercase bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export processed splits as interchange archives",
	Long: `Export converts each processed split into a zip archive with one JSON
communication per document: sections, sentences and tokens, one entity per
template filler and one EVENT_TEMPLATE situation per template.

Archives are written to {concrete}/{uppercase|lowercase}/{split}.zip.

Example:
  mucprep export
  mucprep export --lowercase --roles data/concrete/roles.yaml`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportSplit, "split", "", "split to export (default: all configured splits)")
	exportCmd.Flags().BoolVar(&exportLowercase, "lowercase", false, "lower-case document text")
	exportCmd.Flags().String("roles", "", "YAML slot -> role mapping (default: built-in roles)")

	_ = viper.BindPFlag("paths.role_mapping", exportCmd.Flags().Lookup("roles"))
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	splits, err := splitsFor(cfg, exportSplit)
	if err != nil {
		return err
	}

	opts := []export.Option{export.WithLowercase(exportLowercase)}
	if cfg.Paths.RoleMapping != "" {
		roles, err := export.LoadRoles(cfg.Paths.RoleMapping)
		if err != nil {
			return err
		}
		opts = append(opts, export.WithRoles(roles))
	}
	builder := export.NewBuilder(opts...)

	for _, split := range splits {
		files := pipeline.FilesFor(cfg.Paths.Semiprocessed, cfg.Paths.Processed, split)
		var docs model.ProcessedDocuments
		if err := util.ReadJSON(files.Processed, &docs); err != nil {
			return err
		}

		comms, err := builder.BuildAll(docs)
		if err != nil {
			return fmt.Errorf("export %s: %w", split, err)
		}

		out := filepath.Join(cfg.Paths.Concrete, builder.Variant(), split+".zip")
		if err := export.WriteArchive(out, comms); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s: exported %d %s documents to %s\n", split, len(comms), builder.Variant(), out)
	}
	return nil
}
