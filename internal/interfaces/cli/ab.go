package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/landing-ab/internal/infrastructure/auth/console"
	"github.com/turtacn/landing-ab/pkg/client"
)

// NewABCmd groups the developer console commands.
func NewABCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ab",
		Short: "Inspect and override A/B test assignments",
		Long: "Reads the experiment catalog and the persisted assignment of the visitor\n" +
			"given by --visitor, and forces or clears variants through the console API.",
	}

	cmd.AddCommand(
		newABGetCmd(),
		newABSetCmd(),
		newABResetCmd(),
		newABCatalogCmd(),
		newABSimulateCmd(),
		newABTokenCmd(),
	)
	return cmd
}

func newABGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := apiClient(cmd)
			if err != nil {
				return err
			}
			a, err := cliCtx.Client.Experiments().Get(cmd.Context())
			if err != nil {
				return err
			}
			return PrintResult(cmd, assignmentView{a})
		},
	}
}

func newABSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <test> <variant>",
		Short:   "Force a variant for one test",
		Example: "  landing ab set exit_intent_popup discount --visitor 3f6c...",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := apiClient(cmd)
			if err != nil {
				return err
			}
			test, variant := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			if test == "" || variant == "" {
				return fmt.Errorf("test and variant must not be empty")
			}
			a, err := cliCtx.Client.Experiments().Set(cmd.Context(), test, variant)
			if err != nil {
				return err
			}
			cliCtx.Logger.Debug(fmt.Sprintf("forced %s=%s for %s", test, variant, a.VisitorID))
			return PrintResult(cmd, assignmentView{a})
		},
	}
}

func newABResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the assignment; the next page view reassigns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := apiClient(cmd)
			if err != nil {
				return err
			}
			if err := cliCtx.Client.Experiments().Reset(cmd.Context()); err != nil {
				return err
			}
			PrintSuccess(cmd, "assignment cleared for visitor "+cliCtx.Client.VisitorID())
			return nil
		},
	}
}

func newABCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the active tests and their variant weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := apiClient(cmd)
			if err != nil {
				return err
			}
			tests, err := cliCtx.Client.Experiments().Catalog(cmd.Context())
			if err != nil {
				return err
			}
			return PrintResult(cmd, catalogView(tests))
		},
	}
}

func newABSimulateCmd() *cobra.Command {
	var draws int

	cmd := &cobra.Command{
		Use:   "simulate <test>",
		Short: "Draw variants server side and compare with the configured weights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if draws <= 0 {
				return fmt.Errorf("--draws must be positive, got %d", draws)
			}
			cliCtx, err := apiClient(cmd)
			if err != nil {
				return err
			}
			d, err := cliCtx.Client.Experiments().Simulate(cmd.Context(), args[0], draws)
			if err != nil {
				return err
			}
			return PrintResult(cmd, distributionView{d})
		},
	}

	cmd.Flags().IntVarP(&draws, "draws", "n", 10000, "number of selections to draw")
	return cmd
}

func newABTokenCmd() *cobra.Command {
	var (
		ttl     time.Duration
		subject string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a short-lived console token signed with the console secret",
		Long: "Signs a console token with --console-token (or server.console_token) so\n" +
			"a teammate can use the console without learning the secret.",
		Example: "  landing ab token --ttl 2h --subject alice",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			now := time.Now()
			raw, err := console.Mint(cliCtx.ConsoleToken, subject, ttl, now)
			if err != nil {
				return err
			}
			return PrintResult(cmd, tokenView{Token: raw, Subject: strings.TrimSpace(subject), ExpiresAt: now.Add(ttl).UTC()})
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime (at most 24h)")
	cmd.Flags().StringVar(&subject, "subject", os.Getenv("USER"), "operator name recorded in the token")
	return cmd
}

type tokenView struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (v tokenView) TableHeaders() []string { return []string{"SUBJECT", "EXPIRES", "TOKEN"} }

func (v tokenView) TableRows() [][]string {
	return [][]string{{v.Subject, v.ExpiresAt.Format(time.RFC3339), v.Token}}
}

func (v tokenView) String() string { return v.Token }

type assignmentView struct{ *client.Assignments }

func (v assignmentView) TableHeaders() []string { return []string{"TEST", "VARIANT"} }

func (v assignmentView) TableRows() [][]string {
	names := sortedKeys(v.Assignments.Assignments)
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, []string{n, v.Assignments.Assignments[n]})
	}
	return rows
}

func (v assignmentView) String() string {
	if len(v.Assignments.Assignments) == 0 {
		return fmt.Sprintf("visitor %s: no assignment", v.VisitorID)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "visitor %s", v.VisitorID)
	for _, row := range v.TableRows() {
		fmt.Fprintf(&sb, "\n  %s = %s", row[0], row[1])
	}
	return sb.String()
}

type catalogView []client.TestDefinition

func (v catalogView) TableHeaders() []string { return []string{"TEST", "VARIANT", "WEIGHT", "PROBABILITY"} }

func (v catalogView) TableRows() [][]string {
	var rows [][]string
	for _, t := range v {
		for i, variant := range t.Variants {
			weight := ""
			if i < len(t.Weights) {
				weight = strconv.FormatFloat(t.Weights[i], 'g', -1, 64)
			}
			rows = append(rows, []string{t.Name, variant, weight, formatPercent(t.Probabilities[variant])})
		}
	}
	return rows
}

func (v catalogView) String() string {
	var sb strings.Builder
	for i, t := range v {
		if i > 0 {
			sb.WriteString("\n")
		}
		parts := make([]string, len(t.Variants))
		for j, variant := range t.Variants {
			parts[j] = fmt.Sprintf("%s (%s)", variant, formatPercent(t.Probabilities[variant]))
		}
		fmt.Fprintf(&sb, "%s: %s", t.Name, strings.Join(parts, ", "))
	}
	return sb.String()
}

type distributionView struct{ *client.Distribution }

func (v distributionView) TableHeaders() []string {
	return []string{"VARIANT", "COUNT", "OBSERVED", "EXPECTED"}
}

func (v distributionView) TableRows() [][]string {
	names := sortedKeys(v.Counts)
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		observed, expected := 0.0, 0.0
		if v.Draws > 0 {
			observed = float64(v.Counts[n]) / float64(v.Draws)
			expected = v.Expected[n] / float64(v.Draws)
		}
		rows = append(rows, []string{n, strconv.Itoa(v.Counts[n]), formatPercent(observed), formatPercent(expected)})
	}
	return rows
}

func (v distributionView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d draws, chi2=%.3f p=%s", v.Test, v.Draws, v.ChiSquare, colorizePValue(v.PValue))
	for _, row := range v.TableRows() {
		fmt.Fprintf(&sb, "\n  %-12s %8s  %s (expected %s)", row[0], row[1], row[2], row[3])
	}
	return sb.String()
}

// colorizePValue flags draws that drift from the configured weights.
func colorizePValue(p float64) string {
	s := strconv.FormatFloat(p, 'f', 4, 64)
	switch {
	case p < 0.01:
		return color.RedString(s)
	case p < 0.05:
		return color.YellowString(s)
	default:
		return color.GreenString(s)
	}
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 1, 64) + "%"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//Personal.AI order the ending
