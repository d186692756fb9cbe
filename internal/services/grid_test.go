package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"virtualbarcamp/internal/domain"
	"virtualbarcamp/internal/pubsub"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gridFixture struct {
	settings  *fakeSettingsRepo
	users     *fakeUserRepo
	grid      *fakeGridRepo
	publisher *fakePublisher
	email     *fakeEmailService
	svc       domain.GridService
}

func newGridFixture(t *testing.T) *gridFixture {
	t.Helper()
	f := &gridFixture{
		settings: newFakeSettingsRepo(domain.EventStateGridOpen),
		users: newFakeUserRepo(
			&domain.User{ID: "alice", Name: "Alice", Email: "alice@example.org"},
			&domain.User{ID: "bob", Name: "Bob", Email: "bob@example.org"},
			&domain.User{ID: "carol", Name: "Carol", Email: "carol@example.org"},
		),
		publisher: &fakePublisher{},
		email:     &fakeEmailService{},
	}
	f.grid = newFakeGridRepo(f.users)
	day := time.Date(2020, 9, 19, 9, 0, 0, 0, time.UTC)
	lunch := "Lunch"
	f.grid.addSession("s-09", "Morning", day, nil)
	f.grid.addSession("s-lunch", "Lunch", day.Add(2*time.Hour), &lunch)
	f.grid.addSession("s-13", "Afternoon", day.Add(4*time.Hour), nil)
	f.grid.addSlot("slot-1-09", "s-09", "1")
	f.grid.addSlot("slot-2-09", "s-09", "2")
	f.grid.addSlot("slot-1-13", "s-13", "1")
	f.svc = NewGridService(f.settings, f.grid, f.users, f.publisher, f.email, testLogger, time.Second)
	return f
}

func (f *gridFixture) addTalk(t *testing.T, userID, slotID, title string, others ...string) *domain.Slot {
	t.Helper()
	slot, err := f.svc.AddTalk(context.Background(), userID, slotID, domain.TalkInput{Title: title, AdditionalSpeakers: others})
	require.NoError(t, err)
	return slot
}

func speakerIDs(talk *domain.Talk) []string {
	var ids []string
	for _, s := range talk.Speakers {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestGridService_GetGrid(t *testing.T) {
	f := newGridFixture(t)
	f.addTalk(t, "alice", "slot-1-09", "Go channels")
	f.addTalk(t, "bob", "slot-2-09", "Rust traits")

	sessions, err := f.svc.GetGrid(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	morning := sessions[0]
	require.Len(t, morning.Slots, 2)
	assert.Equal(t, "Go channels", morning.Slots[0].Talk.Title)
	assert.True(t, morning.Slots[0].Talk.IsMine)
	assert.Equal(t, "Rust traits", morning.Slots[1].Talk.Title)
	assert.False(t, morning.Slots[1].Talk.IsMine)

	assert.Nil(t, sessions[1].Slots, "plenary sessions have no slots")
	require.Len(t, sessions[2].Slots, 1)
	assert.Nil(t, sessions[2].Slots[0].Talk)
}

func TestGridService_GetGrid_StateGate(t *testing.T) {
	tests := []struct {
		state   domain.EventState
		allowed bool
	}{
		{domain.EventStateDraft, false},
		{domain.EventStateGridOpen, true},
		{domain.EventStateGridClosed, true},
		{domain.EventStateEventStarted, true},
		{domain.EventStateEventOver, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			f := newGridFixture(t)
			f.settings.settings.EventState = tt.state
			_, err := f.svc.GetGrid(context.Background(), "alice")
			if tt.allowed {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrPermissionDenied)
		})
	}
}

func TestGridService_AddTalk(t *testing.T) {
	f := newGridFixture(t)

	slot, err := f.svc.AddTalk(context.Background(), "alice", "slot-1-09", domain.TalkInput{
		Title:              "  Go channels ",
		IsOpenDiscussion:   true,
		AdditionalSpeakers: []string{"bob", "bob", "alice", ""},
	})
	require.NoError(t, err)
	require.NotNil(t, slot.Talk)
	assert.Equal(t, "slot-1-09", slot.ID)
	assert.Equal(t, "Go channels", slot.Talk.Title)
	assert.True(t, slot.Talk.IsOpenDiscussion)
	assert.True(t, slot.Talk.IsMine)
	assert.Equal(t, []string{"alice", "bob"}, speakerIDs(slot.Talk))

	require.Len(t, f.publisher.events, 1)
	changed, ok := f.publisher.events[0].(domain.TalkChanged)
	require.True(t, ok)
	assert.Equal(t, domain.ChangeCreated, changed.Op())
	require.NotNil(t, changed.Talk.Slot)
	assert.Equal(t, "slot-1-09", changed.Talk.Slot.ID)
	assert.Equal(t, "Go channels", changed.Talk.Slot.Talk.Title)
	assert.False(t, changed.Talk.Slot.Talk.IsMine, "published snapshots are viewer independent")

	require.Len(t, f.email.sent, 1)
	assert.Equal(t, "bob@example.org", f.email.sent[0].Email)
	assert.Equal(t, "Alice", f.email.sent[0].OwnerName)
	assert.Equal(t, "Room 1", f.email.sent[0].RoomName)
}

func TestGridService_AddTalk_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *gridFixture)
		userID  string
		slotID  string
		in      domain.TalkInput
		wantErr error
	}{
		{
			name:    "grid closed",
			setup:   func(f *gridFixture) { f.settings.settings.EventState = domain.EventStateGridClosed },
			userID:  "alice",
			slotID:  "slot-1-09",
			in:      domain.TalkInput{Title: "t"},
			wantErr: domain.ErrPermissionDenied,
		},
		{
			name:    "empty title",
			userID:  "alice",
			slotID:  "slot-1-09",
			in:      domain.TalkInput{Title: "   "},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown slot",
			userID:  "alice",
			slotID:  "nope",
			in:      domain.TalkInput{Title: "t"},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "slot occupied",
			setup: func(f *gridFixture) {
				_, err := f.svc.AddTalk(context.Background(), "bob", "slot-1-09", domain.TalkInput{Title: "first"})
				if err != nil {
					panic(err)
				}
				f.publisher.events = nil
			},
			userID:  "alice",
			slotID:  "slot-1-09",
			in:      domain.TalkInput{Title: "t"},
			wantErr: domain.ErrSlotOccupied,
		},
		{
			name:    "unknown speaker",
			userID:  "alice",
			slotID:  "slot-1-09",
			in:      domain.TalkInput{Title: "t", AdditionalSpeakers: []string{"bob", "mallory"}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown user",
			userID:  "ghost",
			slotID:  "slot-1-09",
			in:      domain.TalkInput{Title: "t"},
			wantErr: domain.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGridFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			_, err := f.svc.AddTalk(context.Background(), tt.userID, tt.slotID, tt.in)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.publisher.events)
			assert.Empty(t, f.email.sent)
		})
	}
}

func TestGridService_AddTalk_EmailFailureIsNotFatal(t *testing.T) {
	f := newGridFixture(t)
	f.email.err = errBoom

	slot, err := f.svc.AddTalk(context.Background(), "alice", "slot-1-09", domain.TalkInput{Title: "t", AdditionalSpeakers: []string{"bob"}})
	require.NoError(t, err)
	assert.NotNil(t, slot.Talk)
	assert.Len(t, f.publisher.events, 1)
}

func TestGridService_AddTalk_RepositoryError(t *testing.T) {
	f := newGridFixture(t)
	f.grid.createErr = errBoom

	_, err := f.svc.AddTalk(context.Background(), "alice", "slot-1-09", domain.TalkInput{Title: "t"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))
	assert.Empty(t, f.publisher.events)
}

func TestGridService_ReloadFailureAfterWrite(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, f *gridFixture) string
		mutate   func(f *gridFixture, talkID string) (string, error)
		wantSlot string
		wantOp   domain.ChangeOp
	}{
		{
			name:  "add",
			setup: func(t *testing.T, f *gridFixture) string { return "" },
			mutate: func(f *gridFixture, _ string) (string, error) {
				slot, err := f.svc.AddTalk(context.Background(), "alice", "slot-1-09", domain.TalkInput{Title: "Go channels", AdditionalSpeakers: []string{"bob"}})
				if err != nil {
					return "", err
				}
				return slot.Talk.Title, nil
			},
			wantSlot: "slot-1-09",
			wantOp:   domain.ChangeCreated,
		},
		{
			name: "move",
			setup: func(t *testing.T, f *gridFixture) string {
				return f.addTalk(t, "alice", "slot-1-09", "Go channels", "bob").Talk.ID
			},
			mutate: func(f *gridFixture, talkID string) (string, error) {
				slot, err := f.svc.MoveTalk(context.Background(), "alice", talkID, "slot-1-13")
				if err != nil {
					return "", err
				}
				return slot.Talk.Title, nil
			},
			wantSlot: "slot-1-13",
			wantOp:   domain.ChangeUpdated,
		},
		{
			name: "update",
			setup: func(t *testing.T, f *gridFixture) string {
				return f.addTalk(t, "alice", "slot-1-09", "Go channels", "bob").Talk.ID
			},
			mutate: func(f *gridFixture, talkID string) (string, error) {
				talk, err := f.svc.UpdateTalk(context.Background(), "alice", talkID, domain.TalkInput{Title: "Go channels", AdditionalSpeakers: []string{"bob"}})
				if err != nil {
					return "", err
				}
				return talk.Title, nil
			},
			wantSlot: "slot-1-09",
			wantOp:   domain.ChangeUpdated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGridFixture(t)
			talkID := tt.setup(t, f)
			f.publisher.events = nil
			f.grid.writes = 0
			f.grid.reloadErr = errBoom

			title, err := tt.mutate(f, talkID)
			require.NoError(t, err, "the write is committed, so the call succeeds")
			assert.Equal(t, "Go channels", title)

			require.Len(t, f.publisher.events, 1)
			changed, ok := f.publisher.events[0].(domain.TalkChanged)
			require.True(t, ok)
			assert.Equal(t, tt.wantOp, changed.Op())
			require.NotNil(t, changed.Talk.Slot)
			assert.Equal(t, tt.wantSlot, changed.Talk.Slot.ID)
			require.NotNil(t, changed.Talk.Slot.Talk)
			assert.Equal(t, "Go channels", changed.Talk.Slot.Talk.Title)
			assert.Equal(t, []string{"alice", "bob"}, speakerIDs(changed.Talk))
		})
	}
}

func TestGridService_MoveTalk(t *testing.T) {
	f := newGridFixture(t)
	talk := f.addTalk(t, "alice", "slot-1-09", "Go channels").Talk
	f.publisher.events = nil

	slot, err := f.svc.MoveTalk(context.Background(), "alice", talk.ID, "slot-1-13")
	require.NoError(t, err)
	assert.Equal(t, "slot-1-13", slot.ID)
	require.NotNil(t, slot.Talk)
	assert.Equal(t, talk.ID, slot.Talk.ID)

	require.Len(t, f.publisher.events, 1)
	changed := f.publisher.events[0].(domain.TalkChanged)
	assert.Equal(t, domain.ChangeUpdated, changed.Op())
	assert.Equal(t, "slot-1-13", changed.Talk.Slot.ID)

	old, err := f.grid.GetSlot(context.Background(), "slot-1-09")
	require.NoError(t, err)
	assert.Nil(t, old.Talk)
}

func TestGridService_MoveTalk_Errors(t *testing.T) {
	f := newGridFixture(t)
	talk := f.addTalk(t, "alice", "slot-1-09", "Go channels").Talk
	f.addTalk(t, "bob", "slot-1-13", "Rust traits")
	f.publisher.events = nil

	_, err := f.svc.MoveTalk(context.Background(), "bob", talk.ID, "slot-2-09")
	require.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = f.svc.MoveTalk(context.Background(), "alice", talk.ID, "slot-1-13")
	require.ErrorIs(t, err, domain.ErrSlotOccupied)

	_, err = f.svc.MoveTalk(context.Background(), "alice", "missing", "slot-2-09")
	require.ErrorIs(t, err, domain.ErrNotFound)

	f.settings.settings.EventState = domain.EventStateGridClosed
	_, err = f.svc.MoveTalk(context.Background(), "alice", talk.ID, "slot-2-09")
	require.ErrorIs(t, err, domain.ErrPermissionDenied)

	assert.Empty(t, f.publisher.events)
}

func TestGridService_RemoveTalk(t *testing.T) {
	f := newGridFixture(t)
	talk := f.addTalk(t, "alice", "slot-1-09", "Go channels").Talk
	f.publisher.events = nil

	_, err := f.svc.RemoveTalk(context.Background(), "bob", "slot-1-09")
	require.ErrorIs(t, err, domain.ErrPermissionDenied)

	slot, err := f.svc.RemoveTalk(context.Background(), "alice", "slot-1-09")
	require.NoError(t, err)
	assert.Equal(t, "slot-1-09", slot.ID)
	assert.Nil(t, slot.Talk)

	require.Len(t, f.publisher.events, 1)
	changed := f.publisher.events[0].(domain.TalkChanged)
	assert.Equal(t, domain.ChangeDeleted, changed.Op())
	assert.Equal(t, talk.ID, changed.Talk.ID)
	require.NotNil(t, changed.Talk.Slot)
	assert.Nil(t, changed.Talk.Slot.Talk)

	_, err = f.svc.RemoveTalk(context.Background(), "alice", "slot-1-09")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGridService_UpdateTalk(t *testing.T) {
	f := newGridFixture(t)
	talk := f.addTalk(t, "alice", "slot-1-09", "Go channels", "bob").Talk
	f.publisher.events = nil
	f.email.sent = nil

	updated, err := f.svc.UpdateTalk(context.Background(), "alice", talk.ID, domain.TalkInput{
		Title:              "Go channels, revisited",
		AdditionalSpeakers: []string{"bob", "carol"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Go channels, revisited", updated.Title)
	assert.True(t, updated.IsMine)
	assert.Equal(t, []string{"alice", "bob", "carol"}, speakerIDs(updated))

	require.Len(t, f.email.sent, 1, "only newly added speakers are emailed")
	assert.Equal(t, "carol@example.org", f.email.sent[0].Email)

	require.Len(t, f.publisher.events, 1)
	changed := f.publisher.events[0].(domain.TalkChanged)
	assert.Equal(t, "slot-1-09", changed.Talk.Slot.ID)
	assert.Equal(t, "Go channels, revisited", changed.Talk.Slot.Talk.Title)

	_, err = f.svc.UpdateTalk(context.Background(), "bob", talk.ID, domain.TalkInput{Title: "mine now"})
	require.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestGridService_UpdateRoom(t *testing.T) {
	f := newGridFixture(t)

	room, err := f.svc.UpdateRoom(context.Background(), "1", " Main hall ")
	require.NoError(t, err)
	assert.Equal(t, "Main hall", room.Name)
	require.Len(t, f.publisher.events, 1)
	_, ok := f.publisher.events[0].(domain.RoomChanged)
	assert.True(t, ok)

	_, err = f.svc.UpdateRoom(context.Background(), "1", " ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.UpdateRoom(context.Background(), "missing", "x")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGridService_ListSpeakers(t *testing.T) {
	f := newGridFixture(t)

	speakers, err := f.svc.ListSpeakers(context.Background())
	require.NoError(t, err)
	require.Len(t, speakers, 3)
	assert.Equal(t, &domain.Speaker{ID: "alice", Name: "Alice"}, speakers[0])

	f.users.listErr = errBoom
	_, err = f.svc.ListSpeakers(context.Background())
	require.ErrorIs(t, err, errBoom)
}

// The services, the broker and the notifier together: a subscriber sees the
// slot of every talk mutation and nothing for room edits.
func TestGridService_MutationsReachSubscribers(t *testing.T) {
	f := newGridFixture(t)
	broker := pubsub.NewBroker(testLogger, 16)
	svc := NewGridService(f.settings, f.grid, f.users, broker, f.email, testLogger, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, unsubscribe := broker.Subscribe()
	defer unsubscribe()
	out, err := NewGridNotifier(f.settings).SlotChanged(ctx, events)
	require.NoError(t, err)

	added, err := svc.AddTalk(ctx, "alice", "slot-1-09", domain.TalkInput{Title: "Go channels"})
	require.NoError(t, err)
	_, err = svc.UpdateRoom(ctx, "2", "Side room")
	require.NoError(t, err)
	_, err = svc.MoveTalk(ctx, "alice", added.Talk.ID, "slot-2-09")
	require.NoError(t, err)

	got := collect(t, out, 2)
	assert.Equal(t, "slot-1-09", got[0].ID)
	assert.Equal(t, "Go channels", got[0].Talk.Title)
	assert.Equal(t, "slot-2-09", got[1].ID)
	assert.Equal(t, "Side room", got[1].Room.Name)
}
