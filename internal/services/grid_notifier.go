package services

import (
	"context"
	"fmt"

	"virtualbarcamp/internal/domain"
)

type gridNotifier struct {
	settings domain.SettingsReader
}

// NewGridNotifier returns the resolver of the slot_changed subscription.
func NewGridNotifier(settings domain.SettingsReader) domain.SlotChangeNotifier {
	return &gridNotifier{settings: settings}
}

// SlotChanged checks the event state once and, while the grid is open, returns
// a stream with the current slot of every changed talk, in arrival order.
// A talk without a slot yields a nil element. Other change events are dropped.
// The stream ends when events is closed or ctx is done; the caller owns events.
func (n *gridNotifier) SlotChanged(ctx context.Context, events <-chan domain.ChangeEvent) (<-chan *domain.Slot, error) {
	settings, err := n.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get global settings: %w", err)
	}
	if settings.EventState != domain.EventStateGridOpen {
		return nil, fmt.Errorf("%w: can not view grid in state %s", domain.ErrPermissionDenied, settings.EventState)
	}

	out := make(chan *domain.Slot)
	go func() {
		defer close(out)
		for {
			var event domain.ChangeEvent
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				event = ev
			}

			changed, ok := event.(domain.TalkChanged)
			if !ok {
				continue
			}
			var slot *domain.Slot
			if changed.Talk != nil {
				slot = changed.Talk.Slot
			}

			select {
			case out <- slot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
