package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"virtualbarcamp/internal/domain"
)

type gridRepository struct {
	DB *sql.DB
}

func NewGridRepository(db *sql.DB) domain.GridRepository {
	return &gridRepository{DB: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *gridRepository) ListSessions(ctx context.Context) ([]*domain.Session, error) {
	query := `
		SELECT id, name, start_time, end_time, event
		FROM sessions
		ORDER BY start_time, name
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []*domain.Session
	for rows.Next() {
		s := &domain.Session{}
		var event sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &event); err != nil {
			return nil, err
		}
		if event.Valid {
			s.Event = &event.String
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

const slotQuery = `
	SELECT sl.id, sl.session_id, sl.slot_start_scheduled_action_id, sl.slot_end_scheduled_action_id,
		r.id, r.name, r.discord_category_id, r.discord_discussion_channel_id,
		r.discord_presentation_channel_id, r.discord_presenter_role_id, r.updated_at,
		t.id, t.title, t.is_open_discussion, t.owner_id, t.created_at, t.updated_at
	FROM slots sl
	JOIN rooms r ON r.id = sl.room_id
	JOIN sessions se ON se.id = sl.session_id
	LEFT JOIN talks t ON t.slot_id = sl.id
`

func scanSlot(row interface{ Scan(...any) error }) (*domain.Slot, error) {
	slot := &domain.Slot{Room: &domain.Room{}}
	var startAction, endAction sql.NullString
	var talkID, title, ownerID sql.NullString
	var isOpen sql.NullBool
	var createdAt, updatedAt sql.NullTime
	room := slot.Room
	err := row.Scan(&slot.ID, &slot.SessionID, &startAction, &endAction,
		&room.ID, &room.Name, &room.DiscordCategoryID, &room.DiscordDiscussionChannelID,
		&room.DiscordPresentationChannelID, &room.DiscordPresenterRoleID, &room.UpdatedAt,
		&talkID, &title, &isOpen, &ownerID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if startAction.Valid {
		slot.SlotStartScheduledActionID = &startAction.String
	}
	if endAction.Valid {
		slot.SlotEndScheduledActionID = &endAction.String
	}
	if talkID.Valid {
		slotID := slot.ID
		slot.Talk = &domain.Talk{
			ID:               talkID.String,
			Title:            title.String,
			IsOpenDiscussion: isOpen.Bool,
			OwnerID:          ownerID.String,
			SlotID:           &slotID,
			CreatedAt:        createdAt.Time,
			UpdatedAt:        updatedAt.Time,
		}
	}
	return slot, nil
}

func (r *gridRepository) ListSlots(ctx context.Context) ([]*domain.Slot, error) {
	rows, err := r.DB.QueryContext(ctx, slotQuery+` ORDER BY se.start_time, r.name, sl.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slots []*domain.Slot
	var talks []*domain.Talk
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		if slot.Talk != nil {
			talks = append(talks, slot.Talk)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadSpeakers(ctx, talks); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *gridRepository) GetSlot(ctx context.Context, slotID string) (*domain.Slot, error) {
	slot, err := scanSlot(r.DB.QueryRowContext(ctx, slotQuery+` WHERE sl.id = $1`, slotID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if slot.Talk != nil {
		if err := r.loadSpeakers(ctx, []*domain.Talk{slot.Talk}); err != nil {
			return nil, err
		}
	}
	return slot, nil
}

func (r *gridRepository) GetTalk(ctx context.Context, talkID string) (*domain.Talk, error) {
	query := `
		SELECT id, title, is_open_discussion, owner_id, slot_id, created_at, updated_at
		FROM talks
		WHERE id = $1
	`
	t := &domain.Talk{}
	var slotID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, talkID).Scan(&t.ID, &t.Title, &t.IsOpenDiscussion, &t.OwnerID, &slotID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if slotID.Valid {
		t.SlotID = &slotID.String
	}
	if err := r.loadSpeakers(ctx, []*domain.Talk{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// loadSpeakers fills Speakers for each talk: the owner first, then the other
// speakers in the order they were entered.
func (r *gridRepository) loadSpeakers(ctx context.Context, talks []*domain.Talk) error {
	if len(talks) == 0 {
		return nil
	}
	ids := make([]string, 0, len(talks))
	byID := make(map[string]*domain.Talk, len(talks))
	for _, t := range talks {
		t.Speakers = []*domain.Speaker{}
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}
	query := `
		SELECT talk_id, user_id, name FROM (
			SELECT t.id AS talk_id, u.id AS user_id, u.name, -1 AS position
			FROM talks t JOIN users u ON u.id = t.owner_id
			WHERE t.id = ANY($1)
			UNION ALL
			SELECT o.talk_id, u.id, u.name, o.position
			FROM talk_other_speakers o JOIN users u ON u.id = o.user_id
			WHERE o.talk_id = ANY($1)
		) speakers
		ORDER BY talk_id, position
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var talkID string
		s := &domain.Speaker{}
		if err := rows.Scan(&talkID, &s.ID, &s.Name); err != nil {
			return err
		}
		if t, ok := byID[talkID]; ok {
			t.Speakers = append(t.Speakers, s)
		}
	}
	return rows.Err()
}

func (r *gridRepository) CreateTalk(ctx context.Context, talk *domain.Talk, otherSpeakerIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO talks (title, is_open_discussion, owner_id, slot_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, talk.Title, talk.IsOpenDiscussion, talk.OwnerID, talk.SlotID, talk.CreatedAt, talk.UpdatedAt).Scan(&talk.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlotOccupied
		}
		return err
	}
	if err := insertOtherSpeakers(ctx, tx, talk.ID, otherSpeakerIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *gridRepository) UpdateTalk(ctx context.Context, talk *domain.Talk, otherSpeakerIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE talks
		SET title = $1, is_open_discussion = $2, updated_at = $3
		WHERE id = $4
	`
	res, err := tx.ExecContext(ctx, query, talk.Title, talk.IsOpenDiscussion, talk.UpdatedAt, talk.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM talk_other_speakers WHERE talk_id = $1`, talk.ID); err != nil {
		return err
	}
	if err := insertOtherSpeakers(ctx, tx, talk.ID, otherSpeakerIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func insertOtherSpeakers(ctx context.Context, tx *sql.Tx, talkID string, userIDs []string) error {
	for i, userID := range userIDs {
		query := `INSERT INTO talk_other_speakers (talk_id, user_id, position) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, query, talkID, userID, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *gridRepository) MoveTalk(ctx context.Context, talkID, slotID string) error {
	query := `UPDATE talks SET slot_id = $1, updated_at = now() WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, slotID, talkID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlotOccupied
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *gridRepository) DeleteTalk(ctx context.Context, talkID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM talks WHERE id = $1`, talkID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *gridRepository) RenameRoom(ctx context.Context, roomID, name string) (*domain.Room, error) {
	query := `
		UPDATE rooms SET name = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, name, discord_category_id, discord_discussion_channel_id,
			discord_presentation_channel_id, discord_presenter_role_id, updated_at
	`
	room := &domain.Room{}
	err := r.DB.QueryRowContext(ctx, query, name, roomID).Scan(&room.ID, &room.Name, &room.DiscordCategoryID,
		&room.DiscordDiscussionChannelID, &room.DiscordPresentationChannelID, &room.DiscordPresenterRoleID, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return room, nil
}
