package scheduler

import (
	"context"
	"fmt"
	"time"

	"rental_portal_backend/internal/events"
)

// SubscribeInboxChecks schedules a one-off inbox check for every new lead,
// due once the lead would count as stale.
func SubscribeInboxChecks(bus events.Bus, sched InboxCheckScheduler, staleAfter time.Duration, clock func() time.Time) {
	if bus == nil || sched == nil || staleAfter <= 0 {
		return
	}
	if clock == nil {
		clock = time.Now
	}

	bus.Subscribe(events.NameLeadCreated, events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadCreated)
		if !ok {
			return nil
		}
		if err := sched.ScheduleInboxCheck(ctx, e.LeadID, clock().Add(staleAfter)); err != nil {
			return fmt.Errorf("schedule inbox check for %s: %w", e.LeadID, err)
		}
		return nil
	}))
}
