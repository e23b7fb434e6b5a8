// Package roi estimates the return on automating a recurring manual task.
package roi

import (
	"context"
	"math"
	"strings"

	"github.com/turtacn/landing-ab/internal/domain/analytics"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/landing-ab/pkg/errors"
)

// WeeksPerMonth converts weekly hours to monthly hours.
const WeeksPerMonth = 4.33

// MessageFillAllFields is returned when an input is missing or not positive.
const MessageFillAllFields = "Пожалуйста, заполните все поля"

// MessageOutOfRange is returned when an input is positive but outside the
// range the estimate is defined for.
const MessageOutOfRange = "Проверьте введённые значения"

// Input bounds.  A week has 168 hours; the rate cap keeps every derived
// amount well inside int64.
const (
	MaxHoursPerWeek = 168.0
	MaxHourlyRate   = 1e7
)

// Task types with dedicated rates.
const (
	TaskEmail     = "email"
	TaskCRM       = "crm"
	TaskHR        = "hr"
	TaskSupport   = "support"
	TaskAnalytics = "analytics"
)

// Fallbacks for unknown task types.
const (
	DefaultAutomationRate     = 0.70
	DefaultImplementationCost = 100000.0
)

// AutomationRates is the share of manual work automation removes.
var AutomationRates = map[string]float64{
	TaskEmail:     0.75,
	TaskCRM:       0.80,
	TaskHR:        0.65,
	TaskSupport:   0.70,
	TaskAnalytics: 0.85,
}

// ImplementationCosts is the average project cost in rubles.
var ImplementationCosts = map[string]float64{
	TaskEmail:     80000,
	TaskCRM:       100000,
	TaskHR:        150000,
	TaskSupport:   120000,
	TaskAnalytics: 90000,
}

// Input is what the visitor enters.
type Input struct {
	HoursPerWeek float64 `json:"hours_per_week"`
	HourlyRate   float64 `json:"hourly_rate"`
	TaskType     string  `json:"task_type"`
}

// Result is the estimate.  Money values are in rubles.
type Result struct {
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

	MonthlyLossText    string `json:"monthly_loss_text"`
	MonthlySavingsText string `json:"monthly_savings_text"`
}

// RatesFor returns the automation rate and implementation cost of taskType.
func RatesFor(taskType string) (rate, cost float64) {
	key := strings.ToLower(strings.TrimSpace(taskType))
	rate, ok := AutomationRates[key]
	if !ok {
		rate = DefaultAutomationRate
	}
	cost, ok = ImplementationCosts[key]
	if !ok {
		cost = DefaultImplementationCost
	}
	return rate, cost
}

// Compute runs the estimate.
func Compute(in Input) (Result, error) {
	if !(in.HoursPerWeek > 0) || !(in.HourlyRate > 0) ||
		math.IsInf(in.HoursPerWeek, 0) || math.IsInf(in.HourlyRate, 0) {
		return Result{}, apperrors.New(apperrors.ErrCodeROIInputInvalid, MessageFillAllFields)
	}
	if in.HoursPerWeek > MaxHoursPerWeek || in.HourlyRate > MaxHourlyRate {
		return Result{}, apperrors.New(apperrors.ErrCodeROIInputInvalid, MessageOutOfRange)
	}
	rate, cost := RatesFor(in.TaskType)

	hoursPerMonth := in.HoursPerWeek * WeeksPerMonth
	hoursSaved := hoursPerMonth * rate
	monthlySavings := hoursSaved * in.HourlyRate
	monthlyLoss := hoursPerMonth * in.HourlyRate
	weeklyLoss := in.HoursPerWeek * in.HourlyRate
	annualSavings := monthlySavings * 12
	payback := math.Ceil(cost / (weeklyLoss * rate))
	if math.IsInf(payback, 0) || payback > math.MaxInt32 {
		return Result{}, apperrors.New(apperrors.ErrCodeROIInputInvalid, MessageOutOfRange)
	}

	return Result{
		TaskType:           in.TaskType,
		AutomationRate:     rate,
		ImplementationCost: cost,
		HoursPerMonth:      hoursPerMonth,
		HoursSaved:         hoursSaved,
		TimeSaved:          jsRound(hoursSaved),
		MonthlySavings:     monthlySavings,
		MonthlyLoss:        monthlyLoss,
		PaybackWeeks:       int64(payback),
		AnnualROI:          (annualSavings - cost) / cost * 100,
		MonthlyLossText:    FormatCurrency(monthlyLoss),
		MonthlySavingsText: FormatCurrency(monthlySavings),
	}, nil
}

// Calculator computes estimates and reports them to analytics.
type Calculator struct {
	tracker analytics.Tracker
	logger  logging.Logger
}

// NewCalculator creates a Calculator.  tracker may be nil.
func NewCalculator(tracker analytics.Tracker, logger logging.Logger) *Calculator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Calculator{tracker: tracker, logger: logger}
}

// Calculate computes the estimate and tracks calculator_calculate labelled
// with the task type.  Invalid input is not tracked.
func (c *Calculator) Calculate(ctx context.Context, visitorID string, in Input) (Result, error) {
	res, err := Compute(in)
	if err != nil {
		return Result{}, err
	}
	if c.tracker != nil {
		e := analytics.NewEvent(analytics.ActionCalculatorCalculate, analytics.CategoryCalculator, in.TaskType)
		e.VisitorID = visitorID
		e.Value = res.MonthlySavings
		if err := c.tracker.Track(ctx, e); err != nil {
			c.logger.Warn("calculator event dropped", logging.Err(err))
		}
	}
	return res, nil
}

// jsRound rounds half up, matching the landing page scripts.  Values past
// the int64 range saturate; NaN rounds to zero.
func jsRound(v float64) int64 {
	r := math.Floor(v + 0.5)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	}
	return int64(r)
}

//Personal.AI order the ending
