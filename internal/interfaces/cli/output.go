package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/landing-ab/pkg/errors"
)

type outputFormat string

const (
	formatText  outputFormat = "text"
	formatJSON  outputFormat = "json"
	formatTable outputFormat = "table"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatTable:
		return f, nil
	default:
		return "", errors.Newf(errors.ErrCodeValidation, "unknown output format %q (text, json, table)", s)
	}
}

// Tabular is implemented by results that render as a table.
type Tabular interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult writes data in the --output format.  Without a CLIContext it
// writes JSON.  Tables fall back to text for data that is not Tabular.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := formatJSON
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format, _ = parseOutputFormat(cliCtx.OutputFormat)
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case formatTable:
		if t, ok := data.(Tabular); ok {
			_, err := fmt.Fprint(out, FormatTable(t.TableHeaders(), t.TableRows()))
			return err
		}
	}

	switch v := data.(type) {
	case string:
		_, err := fmt.Fprintln(out, v)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(out, v.String())
		return err
	default:
		_, err := fmt.Fprintf(out, "%+v\n", v)
		return err
	}
}

// PrintError writes err to stderr.  Application errors show their code:
// "Error [EXP_001]: unknown test (hero)".
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	var ae *errors.AppError
	if errors.As(err, &ae) {
		msg := ae.Message
		if ae.Detail != "" {
			msg += " (" + ae.Detail + ")"
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s [%s]: %s\n", color.RedString("Error"), ae.Code, msg)
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", color.RedString("Error"), err)
}

// PrintSuccess writes a confirmation line to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", color.GreenString("OK"), msg)
}

// FormatTable renders headers and rows as a bordered table.  Short rows are
// padded with empty cells.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)
	table.Header(headers)
	for _, row := range rows {
		cells := make([]string, len(headers))
		copy(cells, row)
		_ = table.Append(cells)
	}
	_ = table.Render()
	return buf.String()
}

//Personal.AI order the ending
