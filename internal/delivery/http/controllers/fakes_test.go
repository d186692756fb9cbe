package controllers

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"virtualbarcamp/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testUserID = "0b4c8a5e-9d4e-4d47-9f0a-1a2b3c4d5e6f"
	testSlotID = "6f1e2d3c-4b5a-4978-8a6b-5c4d3e2f1a0b"
	testTalkID = "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"
	testRoomID = "11111111-2222-4333-8444-555555555555"
	otherUser  = "99999999-8888-4777-8666-555555555555"
)

// fakeGridService implements domain.GridService for handler tests.
type fakeGridService struct {
	sessions []*domain.Session
	speakers []*domain.Speaker
	slot     *domain.Slot
	talk     *domain.Talk
	room     *domain.Room
	err      error

	lastUserID string
	lastSlotID string
	lastTalkID string
	lastRoomID string
	lastName   string
	lastInput  domain.TalkInput
}

func (f *fakeGridService) GetGrid(ctx context.Context, userID string) ([]*domain.Session, error) {
	f.lastUserID = userID
	return f.sessions, f.err
}

func (f *fakeGridService) ListSpeakers(ctx context.Context) ([]*domain.Speaker, error) {
	return f.speakers, f.err
}

func (f *fakeGridService) AddTalk(ctx context.Context, userID, slotID string, in domain.TalkInput) (*domain.Slot, error) {
	f.lastUserID, f.lastSlotID, f.lastInput = userID, slotID, in
	if f.err != nil {
		return nil, f.err
	}
	return f.slot, nil
}

func (f *fakeGridService) MoveTalk(ctx context.Context, userID, talkID, toSlotID string) (*domain.Slot, error) {
	f.lastUserID, f.lastTalkID, f.lastSlotID = userID, talkID, toSlotID
	if f.err != nil {
		return nil, f.err
	}
	return f.slot, nil
}

func (f *fakeGridService) RemoveTalk(ctx context.Context, userID, slotID string) (*domain.Slot, error) {
	f.lastUserID, f.lastSlotID = userID, slotID
	if f.err != nil {
		return nil, f.err
	}
	return f.slot, nil
}

func (f *fakeGridService) UpdateTalk(ctx context.Context, userID, talkID string, in domain.TalkInput) (*domain.Talk, error) {
	f.lastUserID, f.lastTalkID, f.lastInput = userID, talkID, in
	if f.err != nil {
		return nil, f.err
	}
	return f.talk, nil
}

func (f *fakeGridService) UpdateRoom(ctx context.Context, roomID, name string) (*domain.Room, error) {
	f.lastRoomID, f.lastName = roomID, name
	if f.err != nil {
		return nil, f.err
	}
	return f.room, nil
}

// fakeSettingsService implements domain.SettingsService for handler tests.
type fakeSettingsService struct {
	mu     sync.Mutex
	state  domain.EventState
	getErr error
	err    error
	lastTo domain.EventState
}

func (f *fakeSettingsService) Get(ctx context.Context) (*domain.GlobalSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &domain.GlobalSettings{EventState: f.state, UpdatedAt: time.Now()}, nil
}

func (f *fakeSettingsService) TransitionEventState(ctx context.Context, to domain.EventState) (*domain.GlobalSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTo = to
	if f.err != nil {
		return nil, f.err
	}
	f.state = to
	return &domain.GlobalSettings{EventState: to, UpdatedAt: time.Now()}, nil
}

func (f *fakeSettingsService) setState(state domain.EventState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = state
}
