package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run field extraction",
	Long: `Run field extraction against stored documents. Every field with
extraction enabled and a pattern set is applied; matched values are stored
and replace earlier values for the same field.`,
}

var extractRunCmd = &cobra.Command{
	Use:   "run [doc-id]",
	Short: "Extract fields from one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtractRun,
}

var extractAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Extract fields from every stored document",
	Args:  cobra.NoArgs,
	RunE:  runExtractAll,
}

func init() {
	extractCmd.AddCommand(extractRunCmd)
	extractCmd.AddCommand(extractAllCmd)
	rootCmd.AddCommand(extractCmd)
}

func runExtractRun(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	report, err := extractionService.RunByID(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to run extraction: %w", err)
	}

	printReport(cmd, &report)
	return nil
}

func runExtractAll(cmd *cobra.Command, _ []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := commandContext(cmd)
	docs, err := documentService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	stored := 0
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		report := extractionService.Run(ctx, &docs[i])
		stored += len(report.Values)
		cmd.Printf("%s  %d stored, %d no match, %d errors\n",
			docs[i].ID,
			len(report.Values),
			report.Count(domain.OutcomeNoMatch),
			report.Count(domain.OutcomeError))
	}

	cmd.Printf("\nProcessed %d documents, %d values stored\n", len(docs), stored)
	return nil
}

func printReport(cmd *cobra.Command, report *domain.ExtractionReport) {
	cmd.Printf("Document: %s\n\n", report.DocumentID)
	if len(report.Results) == 0 {
		cmd.Println("No fields have extraction enabled.")
		return
	}

	for _, res := range report.Results {
		line := fmt.Sprintf("  %s %s", outcomeMark(res.Outcome), res.Field)
		switch {
		case res.Value != nil:
			line += " = " + res.Value.String()
		case res.Err != "":
			line += ": " + res.Err
		default:
			line += " (" + string(res.Outcome) + ")"
		}
		cmd.Println(line)
	}

	cmd.Printf("\n%d stored, %d no match, %d null, %d errors in %s\n",
		len(report.Values),
		report.Count(domain.OutcomeNoMatch),
		report.Count(domain.OutcomeNull),
		report.Count(domain.OutcomeError),
		report.Duration)
}
