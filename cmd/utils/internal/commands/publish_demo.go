package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/bakery/cmd/utils/internal/demo"
	"github.com/appetiteclub/bakery/pkg"
	"github.com/appetiteclub/bakery/pkg/event"
	"github.com/google/uuid"
)

// PublishDemo publishes a scripted order lifecycle over NATS.
func PublishDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")
	prefix := config.GetStringOrDef("nats.prefix", event.EventsTopic)

	delay, err := time.ParseDuration(config.GetStringOrDef("demo.delay", "2s"))
	if err != nil {
		return fmt.Errorf("invalid demo.delay: %w", err)
	}

	pub, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		return err
	}
	defer pub.Close()

	orderID := config.GetStringOrDef("demo.order_id", uuid.NewString())
	steps := demo.Lifecycle(demo.Options{
		OrderID:      orderID,
		OrderNumber:  config.GetStringOrDef("demo.order_number", "ORD-"+orderID[:8]),
		BranchID:     config.GetStringOrDef("demo.branch_id", "branch-1"),
		BranchName:   config.GetStringOrDef("demo.branch_name", "الفرع الرئيسي"),
		ChefID:       config.GetStringOrDef("demo.chef_id", "chef-1"),
		DepartmentID: config.GetStringOrDef("demo.department_id", "bakery"),
		Start:        time.Now().UTC(),
	})

	for i, step := range steps {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := pub.PublishEvent(ctx, prefix, step.Event, step.Payload); err != nil {
			return fmt.Errorf("publish %s: %w", step.Event, err)
		}
		logger.Info("demo event published", "event", step.Event, "order_id", orderID, "step", i+1, "of", len(steps))
	}

	return nil
}
