package domain

import (
	"context"
	"time"
)

// Room is a track of the barcamp. The Discord identifiers are filled in by the
// Discord integration and are blank until then.
// swagger:model Room
type Room struct {
	ID                           string    `json:"id"`
	Name                         string    `json:"name"`
	DiscordCategoryID            string    `json:"discord_category_id,omitempty"`
	DiscordDiscussionChannelID   string    `json:"discord_discussion_channel_id,omitempty"`
	DiscordPresentationChannelID string    `json:"discord_presentation_channel_id,omitempty"`
	DiscordPresenterRoleID       string    `json:"discord_presenter_role_id,omitempty"`
	UpdatedAt                    time.Time `json:"updated_at"`
}

// Session is a column of the grid: a time period shared by all rooms.
// Event is set for plenary periods (lunch, keynote) which have no slots.
// swagger:model Session
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Event     *string   `json:"event"`
	Slots     []*Slot   `json:"slots"`
}

// Slot is one room/time cell of the grid, possibly occupied by a talk.
// swagger:model Slot
type Slot struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Room      *Room  `json:"room"`
	Talk      *Talk  `json:"talk"`
	// Scheduled actions that fire when the slot starts and ends. Stored only.
	SlotStartScheduledActionID *string `json:"-"`
	SlotEndScheduledActionID   *string `json:"-"`
}

// ViewedBy returns a copy of the slot whose talk has IsMine set for userID.
// The receiver is left untouched, so one published snapshot can be shown to
// many viewers.
func (s *Slot) ViewedBy(userID string) *Slot {
	if s == nil {
		return nil
	}
	out := *s
	if s.Talk != nil {
		talk := *s.Talk
		talk.IsMine = talk.OwnerID == userID
		talk.Slot = nil
		out.Talk = &talk
	}
	return &out
}

// Talk is a presentation proposed by a speaker. Speakers[0] is the owner.
// swagger:model Talk
type Talk struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	IsOpenDiscussion bool       `json:"is_open_discussion"`
	OwnerID          string     `json:"-"`
	SlotID           *string    `json:"slot_id"`
	Speakers         []*Speaker `json:"speakers"`
	IsMine           bool       `json:"is_mine"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Slot is the slot the talk occupied when it was loaded; nil when unscheduled.
	Slot *Slot `json:"-"`
}

// OtherSpeakerIDs returns the IDs of every speaker except the owner.
func (t *Talk) OtherSpeakerIDs() []string {
	ids := make([]string, 0, len(t.Speakers))
	for _, s := range t.Speakers {
		if s.ID != t.OwnerID {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// NewTalk returns a new Talk owned by ownerID in slotID. ID is set by the repository on create.
func NewTalk(ownerID, slotID, title string, isOpenDiscussion bool, createdAt, updatedAt time.Time) *Talk {
	return &Talk{
		Title:            title,
		IsOpenDiscussion: isOpenDiscussion,
		OwnerID:          ownerID,
		SlotID:           &slotID,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
}

// Speaker is the public view of a user listed on a talk.
// swagger:model Speaker
type Speaker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TalkInput carries the editable fields of a talk.
type TalkInput struct {
	Title              string
	IsOpenDiscussion   bool
	AdditionalSpeakers []string
}

// GridRepository defines storage for the grid: rooms, sessions, slots and talks.
type GridRepository interface {
	ListSessions(ctx context.Context) ([]*Session, error)
	// ListSlots returns every slot with its room and talk (including speakers).
	ListSlots(ctx context.Context) ([]*Slot, error)
	GetSlot(ctx context.Context, slotID string) (*Slot, error)
	GetTalk(ctx context.Context, talkID string) (*Talk, error)
	// CreateTalk inserts the talk and its other speakers and sets talk.ID.
	// It returns ErrSlotOccupied if the slot already holds a talk.
	CreateTalk(ctx context.Context, talk *Talk, otherSpeakerIDs []string) error
	UpdateTalk(ctx context.Context, talk *Talk, otherSpeakerIDs []string) error
	// MoveTalk reassigns the talk to slotID. It returns ErrSlotOccupied if the slot already holds a talk.
	MoveTalk(ctx context.Context, talkID, slotID string) error
	DeleteTalk(ctx context.Context, talkID string) error
	RenameRoom(ctx context.Context, roomID, name string) (*Room, error)
}

// GridService defines the business logic for viewing and editing the grid.
type GridService interface {
	GetGrid(ctx context.Context, userID string) ([]*Session, error)
	ListSpeakers(ctx context.Context) ([]*Speaker, error)
	AddTalk(ctx context.Context, userID, slotID string, in TalkInput) (*Slot, error)
	MoveTalk(ctx context.Context, userID, talkID, toSlotID string) (*Slot, error)
	RemoveTalk(ctx context.Context, userID, slotID string) (*Slot, error)
	UpdateTalk(ctx context.Context, userID, talkID string, in TalkInput) (*Talk, error)
	UpdateRoom(ctx context.Context, roomID, name string) (*Room, error)
}
