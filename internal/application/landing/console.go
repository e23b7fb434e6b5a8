package landing

import (
	"context"

	"github.com/turtacn/landing-ab/internal/domain/experiment"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/pkg/errors"
)

// Console is the developer surface over one visitor's assignment: read it,
// force a variant, or clear it.  A following page load picks the change up.
type Console struct {
	svc *Service
	// Strict rejects tests and variants missing from the catalog.  Off, any
	// value is stored as given.
	Strict bool
}

// NewConsole creates a Console.
func NewConsole(svc *Service, strict bool) *Console {
	return &Console{svc: svc, Strict: strict}
}

// Get returns the persisted assignment without creating one.
func (c *Console) Get(ctx context.Context, storage experiment.Storage) (experiment.Assignment, error) {
	return c.svc.Store(storage).GetCurrent(ctx)
}

// Set forces test to variant.
func (c *Console) Set(ctx context.Context, storage experiment.Storage, test, variant string) error {
	if test == "" || variant == "" {
		return errors.New(errors.ErrCodeValidation, "test and variant are required")
	}
	if c.Strict {
		def, err := c.svc.Catalog().Get(test)
		if err != nil {
			return err
		}
		if !def.HasVariant(variant) {
			return errors.Newf(errors.ErrCodeVariantNotFound, "test %q has no variant %q", test, variant)
		}
	}
	if err := c.svc.Store(storage).OverrideOne(ctx, test, variant); err != nil {
		return err
	}
	c.svc.logger.Info("variant forced", logging.String("test", test), logging.String("variant", variant))
	return nil
}

// Reset clears every assignment.
func (c *Console) Reset(ctx context.Context, storage experiment.Storage) error {
	return c.svc.Store(storage).Reset(ctx)
}

//Personal.AI order the ending
