package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driving"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Manage field definitions",
	Long: `Add, inspect, configure and remove fields. A field has a unique name, a
data type that drives value coercion and an optional extraction rule.`,
}

var fieldAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Define a new field",
	Long: `Define a new field.

Data types: integer, float, monetary, date, boolean, string, url,
documentlink, other.

Examples:
  sercha-extract field add Tesisat --type string --pattern 'Tesisat No:\s*(\d+)' --enable
  sercha-extract field add Tutar --type monetary`,
	Args: cobra.ExactArgs(1),
	RunE: runFieldAdd,
}

var fieldListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all fields",
	Args:  cobra.NoArgs,
	RunE:  runFieldList,
}

var fieldShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a field and its extraction rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runFieldShow,
}

var fieldConfigureCmd = &cobra.Command{
	Use:   "configure [name]",
	Short: "Change the extraction rule of a field",
	Long: `Change the extraction rule of a field. Only the flags given are changed.

Examples:
  sercha-extract field configure Tutar --pattern 'TUTARI:?\s*([\d.,]+)' --enable
  sercha-extract field configure Tutar --group 2
  sercha-extract field configure Tutar --disable`,
	Args: cobra.ExactArgs(1),
	RunE: runFieldConfigure,
}

var fieldRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a field and its stored values",
	Args:  cobra.ExactArgs(1),
	RunE:  runFieldRemove,
}

func init() {
	fieldAddCmd.Flags().StringP("type", "t", string(domain.DataTypeString), "Data type of the field")
	fieldAddCmd.Flags().StringP("pattern", "p", "", "Extraction pattern with at least one capture group")
	fieldAddCmd.Flags().IntP("group", "g", domain.DefaultExtractionGroup, "Capture group to read")
	fieldAddCmd.Flags().Bool("enable", false, "Enable automatic extraction")

	fieldConfigureCmd.Flags().StringP("pattern", "p", "", "Extraction pattern; empty clears it")
	fieldConfigureCmd.Flags().IntP("group", "g", domain.DefaultExtractionGroup, "Capture group to read")
	fieldConfigureCmd.Flags().Bool("enable", false, "Enable automatic extraction")
	fieldConfigureCmd.Flags().Bool("disable", false, "Disable automatic extraction")
	fieldConfigureCmd.MarkFlagsMutuallyExclusive("enable", "disable")

	fieldCmd.AddCommand(fieldAddCmd)
	fieldCmd.AddCommand(fieldListCmd)
	fieldCmd.AddCommand(fieldShowCmd)
	fieldCmd.AddCommand(fieldConfigureCmd)
	fieldCmd.AddCommand(fieldRemoveCmd)
	rootCmd.AddCommand(fieldCmd)
}

func runFieldAdd(cmd *cobra.Command, args []string) error {
	if fieldService == nil {
		return errors.New("field service not configured")
	}

	typeName, _ := cmd.Flags().GetString("type")
	dataType, err := domain.ParseDataType(typeName)
	if err != nil {
		return err
	}
	pattern, _ := cmd.Flags().GetString("pattern")
	group, _ := cmd.Flags().GetInt("group")
	enable, _ := cmd.Flags().GetBool("enable")

	field, err := fieldService.Create(commandContext(cmd), domain.FieldDefinition{
		Name:              args[0],
		DataType:          dataType,
		ExtractionEnabled: enable,
		ExtractionPattern: pattern,
		ExtractionGroup:   group,
	})
	if err != nil {
		return fmt.Errorf("failed to add field: %w", err)
	}

	cmd.Printf("Field %s added (%s).\n", field.Name, field.DataType)
	if field.ExtractionEnabled && !field.HasExtraction() {
		cmd.Println("Extraction is enabled but no pattern is set; nothing will be extracted.")
	}
	return nil
}

func runFieldList(cmd *cobra.Command, _ []string) error {
	if fieldService == nil {
		return errors.New("field service not configured")
	}

	fields, err := fieldService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list fields: %w", err)
	}

	if len(fields) == 0 {
		cmd.Println("No fields defined.")
		cmd.Println("Add one with: sercha-extract field add [name] --type [type]")
		return nil
	}

	cmd.Println(headerStyle.Render("Fields:"))
	cmd.Println()
	for i := range fields {
		f := &fields[i]
		state := "off"
		if f.HasExtraction() {
			state = "on"
		}
		cmd.Printf("  %s (%s) extraction: %s\n", f.Name, f.DataType, state)
		if f.ExtractionPattern != "" {
			cmd.Printf("    Pattern: %s  group %d\n", f.ExtractionPattern, f.EffectiveGroup())
		}
	}
	cmd.Println()
	cmd.Printf("Total: %d fields\n", len(fields))
	return nil
}

func runFieldShow(cmd *cobra.Command, args []string) error {
	if fieldService == nil {
		return errors.New("field service not configured")
	}

	field, err := fieldService.GetByName(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get field: %w", err)
	}

	printField(cmd, field)
	return nil
}

func runFieldConfigure(cmd *cobra.Command, args []string) error {
	if fieldService == nil {
		return errors.New("field service not configured")
	}

	var rule driving.ExtractionRule
	flags := cmd.Flags()
	if flags.Changed("pattern") {
		pattern, _ := flags.GetString("pattern")
		rule.Pattern = &pattern
	}
	if flags.Changed("group") {
		group, _ := flags.GetInt("group")
		rule.Group = &group
	}
	if flags.Changed("enable") {
		enabled := true
		rule.Enabled = &enabled
	}
	if flags.Changed("disable") {
		enabled := false
		rule.Enabled = &enabled
	}
	if rule.Pattern == nil && rule.Group == nil && rule.Enabled == nil {
		return errors.New("nothing to change: pass --pattern, --group, --enable or --disable")
	}

	field, err := fieldService.ConfigureExtraction(commandContext(cmd), args[0], rule)
	if err != nil {
		return fmt.Errorf("failed to configure field: %w", err)
	}

	cmd.Printf("Field %s updated.\n\n", field.Name)
	printField(cmd, field)
	return nil
}

func runFieldRemove(cmd *cobra.Command, args []string) error {
	if fieldService == nil {
		return errors.New("field service not configured")
	}

	if err := fieldService.Remove(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to remove field: %w", err)
	}

	cmd.Printf("Field %s removed.\n", args[0])
	return nil
}

func printField(cmd *cobra.Command, f *domain.FieldDefinition) {
	cmd.Printf("Field: %s\n\n", f.Name)
	cmd.Printf("  ID:         %s\n", f.ID)
	cmd.Printf("  Type:       %s (%s)\n", f.DataType, f.DataType.Description())
	cmd.Printf("  Extraction: %t\n", f.ExtractionEnabled)
	cmd.Printf("  Pattern:    %s\n", f.ExtractionPattern)
	cmd.Printf("  Group:      %d\n", f.EffectiveGroup())
	cmd.Printf("  Created:    %s\n", f.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:    %s\n", f.UpdatedAt.Format("2006-01-02 15:04:05"))
}
