package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"virtualbarcamp/internal/domain"
)

// testLogger discards output so tests don't assert on log lines.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeSettingsRepo is an in-memory SettingsRepository for tests.
type fakeSettingsRepo struct {
	settings  *domain.GlobalSettings
	getErr    error
	updateErr error
	getCalls  int
	// blockGet makes Get wait for ctx to be done, like a stalled database.
	blockGet bool
}

func newFakeSettingsRepo(state domain.EventState) *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: &domain.GlobalSettings{EventState: state}}
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (*domain.GlobalSettings, error) {
	f.getCalls++
	if f.blockGet {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.settings
	return &copied, nil
}

func (f *fakeSettingsRepo) UpdateEventState(ctx context.Context, from, to domain.EventState) (*domain.GlobalSettings, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.settings.EventState != from {
		return nil, domain.ErrNotFound
	}
	f.settings.EventState = to
	f.settings.UpdatedAt = time.Now()
	copied := *f.settings
	return &copied, nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	users   map[string]*domain.User
	listErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListSpeakers(ctx context.Context) ([]*domain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeGridRepo is an in-memory GridRepository. Talks reference slots by ID;
// every read returns fresh copies like a database would.
type fakeGridRepo struct {
	users    *fakeUserRepo
	sessions []*domain.Session
	rooms    map[string]*domain.Room
	slots    map[string]*domain.Slot // Talk is always nil here
	talks    map[string]*domain.Talk
	others   map[string][]string
	nextID   int

	createErr error
	moveErr   error
	// reloadErr fails GetSlot once a talk write has been stored.
	reloadErr error
	writes    int
}

func newFakeGridRepo(users *fakeUserRepo) *fakeGridRepo {
	return &fakeGridRepo{
		users:  users,
		rooms:  make(map[string]*domain.Room),
		slots:  make(map[string]*domain.Slot),
		talks:  make(map[string]*domain.Talk),
		others: make(map[string][]string),
		nextID: 1,
	}
}

func (f *fakeGridRepo) addSession(id, name string, start time.Time, event *string) {
	f.sessions = append(f.sessions, &domain.Session{ID: id, Name: name, StartTime: start, EndTime: start.Add(time.Hour), Event: event})
}

func (f *fakeGridRepo) addSlot(id, sessionID, roomID string) {
	if _, ok := f.rooms[roomID]; !ok {
		f.rooms[roomID] = &domain.Room{ID: roomID, Name: "Room " + roomID}
	}
	f.slots[id] = &domain.Slot{ID: id, SessionID: sessionID, Room: f.rooms[roomID]}
}

func (f *fakeGridRepo) talkInSlot(slotID string) *domain.Talk {
	for _, t := range f.talks {
		if t.SlotID != nil && *t.SlotID == slotID {
			return f.loadTalk(t)
		}
	}
	return nil
}

func (f *fakeGridRepo) loadTalk(t *domain.Talk) *domain.Talk {
	copied := *t
	copied.Speakers = nil
	if owner, ok := f.users.users[t.OwnerID]; ok {
		copied.Speakers = append(copied.Speakers, owner.Speaker())
	}
	for _, id := range f.others[t.ID] {
		if u, ok := f.users.users[id]; ok {
			copied.Speakers = append(copied.Speakers, u.Speaker())
		}
	}
	return &copied
}

func (f *fakeGridRepo) loadSlot(s *domain.Slot) *domain.Slot {
	copied := *s
	room := *s.Room
	copied.Room = &room
	copied.Talk = f.talkInSlot(s.ID)
	return &copied
}

func (f *fakeGridRepo) ListSessions(ctx context.Context) ([]*domain.Session, error) {
	out := make([]*domain.Session, 0, len(f.sessions))
	for _, s := range f.sessions {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeGridRepo) ListSlots(ctx context.Context) ([]*domain.Slot, error) {
	ids := make([]string, 0, len(f.slots))
	for id := range f.slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*domain.Slot, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.loadSlot(f.slots[id]))
	}
	return out, nil
}

func (f *fakeGridRepo) GetSlot(ctx context.Context, slotID string) (*domain.Slot, error) {
	if f.reloadErr != nil && f.writes > 0 {
		return nil, f.reloadErr
	}
	s, ok := f.slots[slotID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f.loadSlot(s), nil
}

func (f *fakeGridRepo) GetTalk(ctx context.Context, talkID string) (*domain.Talk, error) {
	t, ok := f.talks[talkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f.loadTalk(t), nil
}

func (f *fakeGridRepo) CreateTalk(ctx context.Context, talk *domain.Talk, otherSpeakerIDs []string) error {
	if f.createErr != nil {
		return f.createErr
	}
	if talk.SlotID != nil && f.talkInSlot(*talk.SlotID) != nil {
		return domain.ErrSlotOccupied
	}
	talk.ID = fmt.Sprintf("talk-%d", f.nextID)
	f.nextID++
	stored := *talk
	f.talks[talk.ID] = &stored
	f.others[talk.ID] = append([]string(nil), otherSpeakerIDs...)
	f.writes++
	return nil
}

func (f *fakeGridRepo) UpdateTalk(ctx context.Context, talk *domain.Talk, otherSpeakerIDs []string) error {
	stored, ok := f.talks[talk.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Title = talk.Title
	stored.IsOpenDiscussion = talk.IsOpenDiscussion
	stored.UpdatedAt = talk.UpdatedAt
	f.others[talk.ID] = append([]string(nil), otherSpeakerIDs...)
	f.writes++
	return nil
}

func (f *fakeGridRepo) MoveTalk(ctx context.Context, talkID, slotID string) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	stored, ok := f.talks[talkID]
	if !ok {
		return domain.ErrNotFound
	}
	if existing := f.talkInSlot(slotID); existing != nil && existing.ID != talkID {
		return domain.ErrSlotOccupied
	}
	id := slotID
	stored.SlotID = &id
	f.writes++
	return nil
}

func (f *fakeGridRepo) DeleteTalk(ctx context.Context, talkID string) error {
	if _, ok := f.talks[talkID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.talks, talkID)
	delete(f.others, talkID)
	return nil
}

func (f *fakeGridRepo) RenameRoom(ctx context.Context, roomID, name string) (*domain.Room, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	room.Name = name
	copied := *room
	return &copied, nil
}

// fakePublisher records published change events.
type fakePublisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (f *fakePublisher) Publish(ctx context.Context, event domain.ChangeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

// fakeEmailService records co-speaker emails and optionally fails.
type fakeEmailService struct {
	sent []*domain.CoSpeakerAddedEmailData
	err  error
}

func (f *fakeEmailService) SendCoSpeakerAdded(ctx context.Context, data *domain.CoSpeakerAddedEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

// fakeMailer records sent messages for emailService tests.
type fakeMailer struct {
	to, subject, html, text string
	err                     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return nil
}

// fakeRenderer returns fixed content or an error.
type fakeRenderer struct {
	lastTemplate string
	err          error
}

func (f *fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	f.lastTemplate = templateName
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject", "<p>html</p>", "text", nil
}

var errBoom = errors.New("boom")
