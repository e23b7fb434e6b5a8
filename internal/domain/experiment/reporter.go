package experiment

import (
	"context"

	"github.com/turtacn/landing-ab/internal/domain/analytics"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
)

// ParamsKey is the aggregate key assignments are reported under.
const ParamsKey = "ab_tests"

// Reporter forwards a visitor's assignment to analytics once per page load.
// Both collaborators are optional; delivery failures are logged and dropped
// so a broken sink never blocks rendering.
type Reporter struct {
	tracker analytics.Tracker
	params  analytics.ParamsSink
	catalog *Catalog
	logger  logging.Logger
}

// NewReporter creates a Reporter.  tracker and params may be nil.
func NewReporter(tracker analytics.Tracker, params analytics.ParamsSink, catalog *Catalog, logger logging.Logger) *Reporter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Reporter{tracker: tracker, params: params, catalog: catalog, logger: logger}
}

// Report emits one ab_test_assignment event per test, then one aggregate
// params payload carrying the whole assignment.
func (r *Reporter) Report(ctx context.Context, visitorID string, a Assignment) {
	if r.tracker != nil {
		for _, test := range a.Ordered(r.catalog) {
			e := analytics.NewEvent(analytics.ActionABTestAssignment, analytics.CategoryABTest, "").
				WithParam("test_name", test).
				WithParam("variant", a[test])
			e.VisitorID = visitorID
			if err := r.tracker.Track(ctx, e); err != nil {
				r.logger.Warn("assignment event dropped",
					logging.String("test", test),
					logging.String("visitor_id", visitorID),
					logging.Err(err))
			}
		}
	}
	if r.params != nil {
		payload := map[string]interface{}{ParamsKey: map[string]string(a.Clone())}
		if err := r.params.Params(ctx, visitorID, payload); err != nil {
			r.logger.Warn("assignment params dropped",
				logging.String("visitor_id", visitorID),
				logging.Err(err))
		}
	}
	r.logger.Debug("assignments reported",
		logging.String("visitor_id", visitorID),
		logging.Int("tests", len(a)))
}

//Personal.AI order the ending
