package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-extract/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage consumed documents",
	Long:  `Add files, list consumed documents and view their extracted values.`,
}

var documentAddCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Consume a file and extract its fields",
	Long: `Read a file, normalise it to plain text, store it and run field
extraction. The MIME type is guessed from the extension unless --mime is set.
Adding the same file again replaces the stored document.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentAdd,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List consumed documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentValuesCmd = &cobra.Command{
	Use:   "values [doc-id]",
	Short: "Show stored field values for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentValues,
}

func init() {
	documentAddCmd.Flags().String("mime", "", "Override the detected MIME type")

	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentValuesCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentAdd(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	mimeType, _ := cmd.Flags().GetString("mime")
	if mimeType == "" {
		mimeType = filesystem.DetectMIMEType(path)
	}

	doc, err := ingestService.IngestRaw(commandContext(cmd), &domain.RawDocument{
		URI:      "file://" + path,
		MIMEType: mimeType,
		Content:  content,
	})
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	cmd.Printf("Document %s added.\n", doc.ID)
	cmd.Printf("  Title: %s\n", doc.Title)
	return printValues(cmd, doc.ID)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Println(headerStyle.Render("Documents:"))
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		if docs[i].URI != "" {
			cmd.Printf("    URI: %s\n", docs[i].URI)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  URI:      %s\n", doc.URI)
	cmd.Printf("  Size:     %d bytes\n", len(doc.Content))
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(doc.Content)
	return nil
}

func runDocumentValues(cmd *cobra.Command, args []string) error {
	return printValues(cmd, args[0])
}

// printValues lists stored values for a document sorted by field name.
func printValues(cmd *cobra.Command, documentID string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	values, err := extractionService.Values(commandContext(cmd), documentID)
	if err != nil {
		return fmt.Errorf("failed to get values: %w", err)
	}

	if len(values) == 0 {
		cmd.Println("No field values stored.")
		return nil
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	cmd.Println()
	cmd.Println(headerStyle.Render("Values:"))
	for _, name := range names {
		v := values[name]
		cmd.Printf("  %s = %s (%s)\n", labelStyle.Render(name), v.String(), v.Kind)
	}
	return nil
}
