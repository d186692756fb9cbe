package domain

import "context"

// ChangeOp is the kind of mutation a change event describes.
type ChangeOp string

const (
	ChangeCreated ChangeOp = "created"
	ChangeUpdated ChangeOp = "updated"
	ChangeDeleted ChangeOp = "deleted"
)

// ChangeEvent is emitted after a tracked entity is saved or deleted.
// The set of variants is closed: TalkChanged, SlotChanged, RoomChanged and
// SpeakerChanged. Consumers switch on the concrete type.
type ChangeEvent interface {
	Op() ChangeOp
	isChangeEvent()
}

// TalkChanged carries a snapshot of the talk taken right after the write.
// Talk.Slot is the slot the talk occupies at that moment, or nil.
type TalkChanged struct {
	Kind ChangeOp
	Talk *Talk
}

func (e TalkChanged) Op() ChangeOp { return e.Kind }
func (TalkChanged) isChangeEvent() {}

// SlotChanged carries a snapshot of a slot.
type SlotChanged struct {
	Kind ChangeOp
	Slot *Slot
}

func (e SlotChanged) Op() ChangeOp { return e.Kind }
func (SlotChanged) isChangeEvent() {}

// RoomChanged carries a snapshot of a room.
type RoomChanged struct {
	Kind ChangeOp
	Room *Room
}

func (e RoomChanged) Op() ChangeOp { return e.Kind }
func (RoomChanged) isChangeEvent() {}

// SpeakerChanged carries a snapshot of a speaker profile.
type SpeakerChanged struct {
	Kind    ChangeOp
	Speaker *Speaker
}

func (e SpeakerChanged) Op() ChangeOp { return e.Kind }
func (SpeakerChanged) isChangeEvent() {}

// ChangePublisher receives change events from services after successful writes.
type ChangePublisher interface {
	Publish(ctx context.Context, event ChangeEvent)
}

// ChangeFeed hands out independent subscriptions to the process-wide change stream.
// cancel releases the subscription; the channel is closed afterwards.
type ChangeFeed interface {
	Subscribe() (events <-chan ChangeEvent, cancel func())
}

// SlotChangeNotifier turns the raw change stream into the slot_changed subscription.
type SlotChangeNotifier interface {
	SlotChanged(ctx context.Context, events <-chan ChangeEvent) (<-chan *Slot, error)
}
