package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse documents and field values interactively",
	Long: `Open a terminal browser over consumed documents. Select a document to
see its stored field values, press x to run extraction again or p to try a
pattern against its content without storing anything.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	app, err := tui.NewApp(&tui.Ports{
		Document:   documentService,
		Extraction: extractionService,
	})
	if err != nil {
		return err
	}
	return app.Run()
}
