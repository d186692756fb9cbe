package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"virtualbarcamp/internal/domain"
)

type gridService struct {
	settings       domain.SettingsReader
	gridRepo       domain.GridRepository
	userRepo       domain.UserRepository
	publisher      domain.ChangePublisher
	email          domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewGridService returns a GridService. Every successful mutation is published to publisher.
func NewGridService(settings domain.SettingsReader, gridRepo domain.GridRepository, userRepo domain.UserRepository, publisher domain.ChangePublisher, email domain.EmailService, logger *slog.Logger, timeout time.Duration) domain.GridService {
	return &gridService{
		settings:       settings,
		gridRepo:       gridRepo,
		userRepo:       userRepo,
		publisher:      publisher,
		email:          email,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *gridService) eventState(ctx context.Context) (domain.EventState, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("get global settings: %w", err)
	}
	return settings.EventState, nil
}

func (s *gridService) requireGridOpen(ctx context.Context) error {
	state, err := s.eventState(ctx)
	if err != nil {
		return err
	}
	if state != domain.EventStateGridOpen {
		return fmt.Errorf("%w: can not edit grid in state %s", domain.ErrPermissionDenied, state)
	}
	return nil
}

func (s *gridService) GetGrid(ctx context.Context, userID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	state, err := s.eventState(ctx)
	if err != nil {
		return nil, err
	}
	if !state.GridVisible() {
		return nil, fmt.Errorf("%w: can not view grid in state %s", domain.ErrPermissionDenied, state)
	}

	sessions, err := s.gridRepo.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	slots, err := s.gridRepo.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	bySession := lo.GroupBy(slots, func(slot *domain.Slot) string { return slot.SessionID })
	for _, session := range sessions {
		if session.Event != nil {
			session.Slots = nil
			continue
		}
		session.Slots = lo.Map(bySession[session.ID], func(slot *domain.Slot, _ int) *domain.Slot {
			return slot.ViewedBy(userID)
		})
		if session.Slots == nil {
			session.Slots = []*domain.Slot{}
		}
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return sessions, nil
}

func (s *gridService) ListSpeakers(ctx context.Context) ([]*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.userRepo.ListSpeakers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	return lo.Map(users, func(u *domain.User, _ int) *domain.Speaker { return u.Speaker() }), nil
}

func (s *gridService) AddTalk(ctx context.Context, userID, slotID string, in domain.TalkInput) (*domain.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateTalkInput(in); err != nil {
		return nil, err
	}
	if err := s.requireGridOpen(ctx); err != nil {
		return nil, err
	}
	slot, err := s.gridRepo.GetSlot(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot.Talk != nil {
		return nil, domain.ErrSlotOccupied
	}
	owner, others, err := s.resolveSpeakers(ctx, userID, in.AdditionalSpeakers)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	talk := domain.NewTalk(userID, slotID, strings.TrimSpace(in.Title), in.IsOpenDiscussion, now, now)
	otherIDs := lo.Map(others, func(u *domain.User, _ int) string { return u.ID })
	if err := s.gridRepo.CreateTalk(ctx, talk, otherIDs); err != nil {
		return nil, fmt.Errorf("create talk: %w", err)
	}
	talk.Speakers = speakersOf(owner, others)

	updated := s.publishTalk(ctx, domain.ChangeCreated, talk, slot)
	s.notifyCoSpeakers(ctx, owner, others, talk.Title, updated)
	return updated.ViewedBy(userID), nil
}

func (s *gridService) MoveTalk(ctx context.Context, userID, talkID, toSlotID string) (*domain.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireGridOpen(ctx); err != nil {
		return nil, err
	}
	talk, err := s.ownedTalk(ctx, userID, talkID)
	if err != nil {
		return nil, err
	}
	dest, err := s.gridRepo.GetSlot(ctx, toSlotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if dest.Talk != nil && dest.Talk.ID != talk.ID {
		return nil, domain.ErrSlotOccupied
	}

	if err := s.gridRepo.MoveTalk(ctx, talk.ID, toSlotID); err != nil {
		return nil, fmt.Errorf("move talk: %w", err)
	}
	talk.SlotID = &toSlotID
	return s.publishTalk(ctx, domain.ChangeUpdated, talk, dest).ViewedBy(userID), nil
}

func (s *gridService) RemoveTalk(ctx context.Context, userID, slotID string) (*domain.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireGridOpen(ctx); err != nil {
		return nil, err
	}
	slot, err := s.gridRepo.GetSlot(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	talk := slot.Talk
	if talk == nil {
		return nil, fmt.Errorf("%w: slot has no talk", domain.ErrNotFound)
	}
	if talk.OwnerID != userID {
		return nil, fmt.Errorf("%w: talk belongs to another speaker", domain.ErrPermissionDenied)
	}

	if err := s.gridRepo.DeleteTalk(ctx, talk.ID); err != nil {
		return nil, fmt.Errorf("delete talk: %w", err)
	}
	slot.Talk = nil
	deleted := *talk
	deleted.Slot = slot
	s.publisher.Publish(ctx, domain.TalkChanged{Kind: domain.ChangeDeleted, Talk: &deleted})
	return slot, nil
}

func (s *gridService) UpdateTalk(ctx context.Context, userID, talkID string, in domain.TalkInput) (*domain.Talk, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateTalkInput(in); err != nil {
		return nil, err
	}
	if err := s.requireGridOpen(ctx); err != nil {
		return nil, err
	}
	talk, err := s.ownedTalk(ctx, userID, talkID)
	if err != nil {
		return nil, err
	}
	owner, others, err := s.resolveSpeakers(ctx, userID, in.AdditionalSpeakers)
	if err != nil {
		return nil, err
	}
	var current *domain.Slot
	if talk.SlotID != nil {
		if current, err = s.gridRepo.GetSlot(ctx, *talk.SlotID); err != nil {
			return nil, fmt.Errorf("get slot: %w", err)
		}
	}

	previous := talk.OtherSpeakerIDs()
	talk.Title = strings.TrimSpace(in.Title)
	talk.IsOpenDiscussion = in.IsOpenDiscussion
	talk.UpdatedAt = time.Now()
	otherIDs := lo.Map(others, func(u *domain.User, _ int) string { return u.ID })
	if err := s.gridRepo.UpdateTalk(ctx, talk, otherIDs); err != nil {
		return nil, fmt.Errorf("update talk: %w", err)
	}
	talk.Speakers = speakersOf(owner, others)

	slot := s.publishTalk(ctx, domain.ChangeUpdated, talk, current)
	added, _ := lo.Difference(otherIDs, previous)
	newcomers := lo.Filter(others, func(u *domain.User, _ int) bool { return lo.Contains(added, u.ID) })
	s.notifyCoSpeakers(ctx, owner, newcomers, talk.Title, slot)

	view := *talk
	if slot != nil && slot.Talk != nil {
		view = *slot.Talk
	}
	view.Slot = nil
	view.IsMine = view.OwnerID == userID
	return &view, nil
}

func (s *gridService) UpdateRoom(ctx context.Context, roomID, name string) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", domain.ErrInvalidInput)
	}
	room, err := s.gridRepo.RenameRoom(ctx, roomID, name)
	if err != nil {
		return nil, fmt.Errorf("rename room: %w", err)
	}
	s.publisher.Publish(ctx, domain.RoomChanged{Kind: domain.ChangeUpdated, Room: room})
	return room, nil
}

func validateTalkInput(in domain.TalkInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	return nil
}

// ownedTalk loads the talk and checks that userID owns it.
func (s *gridService) ownedTalk(ctx context.Context, userID, talkID string) (*domain.Talk, error) {
	talk, err := s.gridRepo.GetTalk(ctx, talkID)
	if err != nil {
		return nil, fmt.Errorf("get talk: %w", err)
	}
	if talk.OwnerID != userID {
		return nil, fmt.Errorf("%w: talk belongs to another speaker", domain.ErrPermissionDenied)
	}
	return talk, nil
}

// resolveSpeakers loads the owner and the additional speakers. The owner and
// duplicates are removed from the additional list; unknown IDs are rejected.
func (s *gridService) resolveSpeakers(ctx context.Context, ownerID string, additional []string) (*domain.User, []*domain.User, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: unknown user", domain.ErrPermissionDenied)
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	ids := lo.Without(lo.Uniq(lo.Compact(additional)), ownerID)
	if len(ids) == 0 {
		return owner, nil, nil
	}
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("list speakers: %w", err)
	}
	if len(users) != len(ids) {
		found := lo.Map(users, func(u *domain.User, _ int) string { return u.ID })
		missing, _ := lo.Difference(ids, found)
		return nil, nil, fmt.Errorf("%w: unknown speakers %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	// Keep the caller's order for the speaker list.
	byID := lo.KeyBy(users, func(u *domain.User) string { return u.ID })
	return owner, lo.Map(ids, func(id string, _ int) *domain.User { return byID[id] }), nil
}

// publishTalk publishes a TalkChanged snapshot of a talk that was just
// written and returns the slot it now occupies, or nil when unscheduled.
// The slot is reloaded so the snapshot carries stored values. The write is
// already committed, so a failed reload is logged and the snapshot is built
// from talk and fallback, the slot as read before the write.
func (s *gridService) publishTalk(ctx context.Context, op domain.ChangeOp, talk *domain.Talk, fallback *domain.Slot) *domain.Slot {
	snapshot := *talk
	snapshot.Slot = nil
	var slot *domain.Slot
	if talk.SlotID != nil {
		loaded, err := s.gridRepo.GetSlot(ctx, *talk.SlotID)
		switch {
		case err == nil:
			slot = loaded
			if slot.Talk != nil && slot.Talk.ID == talk.ID {
				snapshot = *slot.Talk
			}
		case fallback != nil:
			s.logger.WarnContext(ctx, "reload slot after write failed", "talk", talk.ID, "slot", *talk.SlotID, "err", err)
			rebuilt := *fallback
			inSlot := snapshot
			rebuilt.Talk = &inSlot
			slot = &rebuilt
		default:
			s.logger.WarnContext(ctx, "reload slot after write failed", "talk", talk.ID, "slot", *talk.SlotID, "err", err)
		}
	}
	snapshot.Slot = slot
	s.publisher.Publish(ctx, domain.TalkChanged{Kind: op, Talk: &snapshot})
	return slot
}

func speakersOf(owner *domain.User, others []*domain.User) []*domain.Speaker {
	speakers := make([]*domain.Speaker, 0, len(others)+1)
	speakers = append(speakers, owner.Speaker())
	for _, u := range others {
		speakers = append(speakers, u.Speaker())
	}
	return speakers
}

// notifyCoSpeakers emails each co-speaker. Failures are logged, not returned:
// the talk is already saved.
func (s *gridService) notifyCoSpeakers(ctx context.Context, owner *domain.User, coSpeakers []*domain.User, title string, slot *domain.Slot) {
	roomName := ""
	if slot != nil && slot.Room != nil {
		roomName = slot.Room.Name
	}
	for _, u := range coSpeakers {
		err := s.email.SendCoSpeakerAdded(ctx, &domain.CoSpeakerAddedEmailData{
			Email:     u.Email,
			Name:      u.Name,
			OwnerName: owner.Name,
			TalkTitle: title,
			RoomName:  roomName,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "co-speaker email failed", "user", u.ID, "err", err)
		}
	}
}
