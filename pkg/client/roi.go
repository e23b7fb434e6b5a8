package client

import "context"

// ROIClient calls the savings calculator.
type ROIClient struct {
	client *Client
}

// ROIInput is the calculator form.
type ROIInput struct {
	HoursPerWeek float64 `json:"hours_per_week"`
	HourlyRate   float64 `json:"hourly_rate"`
	TaskType     string  `json:"task_type"`
}

// ROIResult is the calculator estimate.
type ROIResult struct {
	TaskType           string  `json:"task_type"`
	AutomationRate     float64 `json:"automation_rate"`
	ImplementationCost float64 `json:"implementation_cost"`
	HoursPerMonth      float64 `json:"hours_per_month"`
	HoursSaved         float64 `json:"hours_saved"`
	TimeSaved          int64   `json:"time_saved"`
	MonthlySavings     float64 `json:"monthly_savings"`
	MonthlyLoss        float64 `json:"monthly_loss"`
	PaybackWeeks       int64   `json:"payback_weeks"`
	AnnualROI          float64 `json:"annual_roi"`
	MonthlyLossText    string  `json:"monthly_loss_text"`
	MonthlySavingsText string  `json:"monthly_savings_text"`
}

// Calculate runs the estimate.
func (r *ROIClient) Calculate(ctx context.Context, in ROIInput) (*ROIResult, error) {
	var res ROIResult
	if err := r.client.post(ctx, "/api/v1/roi", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

//Personal.AI order the ending
