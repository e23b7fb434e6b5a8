package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/landing-ab/pkg/client"
)

var roiTaskTypes = []string{"email", "crm", "hr", "support", "analytics", "other"}

// NewROICmd runs the savings calculator on the server.
func NewROICmd() *cobra.Command {
	var in client.ROIInput

	cmd := &cobra.Command{
		Use:     "roi",
		Short:   "Estimate automation savings",
		Example: "  landing roi --hours 20 --rate 1500 --task crm",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.TaskType = strings.ToLower(strings.TrimSpace(in.TaskType))
			if !isValidTaskType(in.TaskType) {
				return fmt.Errorf("invalid task type: %s (must be %s)", in.TaskType, strings.Join(roiTaskTypes, "/"))
			}
			if in.HoursPerWeek <= 0 || in.HourlyRate <= 0 {
				return fmt.Errorf("--hours and --rate must be positive")
			}
			cliCtx, err := apiClient(cmd)
			if err != nil {
				return err
			}
			res, err := cliCtx.Client.ROI().Calculate(cmd.Context(), in)
			if err != nil {
				return err
			}
			return PrintResult(cmd, roiView{res})
		},
	}

	cmd.Flags().Float64Var(&in.HoursPerWeek, "hours", 0, "hours per week spent on the task [REQUIRED]")
	cmd.Flags().Float64Var(&in.HourlyRate, "rate", 0, "hourly rate in rubles [REQUIRED]")
	cmd.Flags().StringVar(&in.TaskType, "task", "other", "task type ("+strings.Join(roiTaskTypes, "/")+")")
	cmd.MarkFlagRequired("hours")
	cmd.MarkFlagRequired("rate")
	return cmd
}

func isValidTaskType(t string) bool {
	for _, v := range roiTaskTypes {
		if v == t {
			return true
		}
	}
	return false
}

type roiView struct{ *client.ROIResult }

func (v roiView) TableHeaders() []string { return []string{"METRIC", "VALUE"} }

func (v roiView) TableRows() [][]string {
	return [][]string{
		{"task_type", v.TaskType},
		{"hours_saved", fmt.Sprintf("%.1f", v.HoursSaved)},
		{"monthly_loss", v.MonthlyLossText},
		{"monthly_savings", v.MonthlySavingsText},
		{"payback_weeks", fmt.Sprintf("%d", v.PaybackWeeks)},
		{"annual_roi", fmt.Sprintf("%.0f%%", v.AnnualROI)},
	}
}

func (v roiView) String() string {
	return fmt.Sprintf("%s: saves %d h/month, %s per month (losing %s now), payback in %d weeks, annual ROI %.0f%%",
		v.TaskType, v.TimeSaved, v.MonthlySavingsText, v.MonthlyLossText, v.PaybackWeeks, v.AnnualROI)
}

//Personal.AI order the ending
