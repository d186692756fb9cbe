package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"virtualbarcamp/internal/delivery/http/helpers"
	"virtualbarcamp/internal/delivery/http/middleware"
	"virtualbarcamp/internal/domain"
)

// Frame types of the subscription protocol.
const (
	frameConnectionInit      = "connection_init"
	frameConnectionAck       = "connection_ack"
	frameConnectionTerminate = "connection_terminate"
	frameStart               = "start"
	frameStop                = "stop"
	frameData                = "data"
	frameError               = "error"
	frameComplete            = "complete"
)

// FieldSlotChanged is the only subscription field served.
const FieldSlotChanged = "slot_changed"

const (
	maxFramePayloadBytes = 64 << 10
	maxDecodeErrors      = 5
	writeTimeout         = 10 * time.Second
)

type inFrame struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outFrame struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

type startPayload struct {
	Field string `json:"field"`
}

type slotChangedPayload struct {
	SlotChanged *domain.Slot `json:"slot_changed"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SubscriptionController serves GET /subscriptions, a WebSocket that streams
// grid changes. Each start frame opens an independent slot_changed stream fed
// by its own change feed subscription.
type SubscriptionController struct {
	Logger         *slog.Logger
	Feed           domain.ChangeFeed
	Notifier       domain.SlotChangeNotifier
	allowedOrigins map[string]struct{}
}

func NewSubscriptionController(logger *slog.Logger, feed domain.ChangeFeed, notifier domain.SlotChangeNotifier, allowedOrigins []string) *SubscriptionController {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			allowed[o] = struct{}{}
		}
	}
	return &SubscriptionController{
		Logger:         logger,
		Feed:           feed,
		Notifier:       notifier,
		allowedOrigins: allowed,
	}
}

// Subscribe godoc
// @Summary Subscribe to grid changes
// @Description WebSocket endpoint. Send {"type":"connection_init"}, then {"type":"start","id":"1","payload":{"field":"slot_changed"}}. Every talk change yields {"type":"data","id":"1","payload":{"slot_changed":Slot}}; slot_changed is null for a talk without a slot. Starting fails with an error frame (code forbidden) unless the grid is open. {"type":"stop","id":"1"} ends the stream with a complete frame.
// @Tags subscriptions
// @Security BearerAuth
// @Success 101 "Switching Protocols"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 "origin not allowed"
// @Router /subscriptions [get]
func (c *SubscriptionController) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	server := websocket.Server{
		Handshake: c.checkOrigin,
		Handler: func(conn *websocket.Conn) {
			c.serve(conn, userID)
		},
	}
	server.ServeHTTP(w, r)
}

// checkOrigin accepts same-host origins and the configured allowed origins.
func (c *SubscriptionController) checkOrigin(config *websocket.Config, r *http.Request) error {
	origin, err := websocket.Origin(config, r)
	if err != nil {
		return err
	}
	if origin == nil {
		return errors.New("missing origin")
	}
	if origin.Host == r.Host {
		config.Origin = origin
		return nil
	}
	if _, ok := c.allowedOrigins[originString(origin)]; ok {
		config.Origin = origin
		return nil
	}
	return fmt.Errorf("origin %s not allowed", originString(origin))
}

func originString(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// subEntry is the handle of one started stream. An id may be reused after
// stop, so a stream only ever removes its own entry.
type subEntry struct {
	cancel context.CancelFunc
}

type wsSession struct {
	conn   *websocket.Conn
	id     string
	userID string
	logger *slog.Logger

	writeMu sync.Mutex

	mu          sync.Mutex
	initialized bool
	subs        map[string]*subEntry
	wg          sync.WaitGroup
}

func (s *wsSession) send(frame outFrame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return websocket.JSON.Send(s.conn, frame)
}

// sendData writes a data frame only while entry is still the stream registered
// under id, so nothing follows the complete frame of a stopped stream.
func (s *wsSession) sendData(id string, entry *subEntry, payload any) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	active := s.subs[id] == entry
	s.mu.Unlock()
	if !active {
		return false, nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return true, websocket.JSON.Send(s.conn, outFrame{Type: frameData, ID: id, Payload: payload})
}

func (s *wsSession) sendError(id, code, message string) {
	if err := s.send(outFrame{Type: frameError, ID: id, Payload: errorPayload{Code: code, Message: message}}); err != nil {
		s.logger.Debug("write error frame failed", "err", err)
	}
}

func (c *SubscriptionController) serve(conn *websocket.Conn, userID string) {
	conn.MaxPayloadBytes = maxFramePayloadBytes
	ctx, cancel := context.WithCancel(conn.Request().Context())
	session := &wsSession{
		conn:   conn,
		id:     uuid.NewString(),
		userID: userID,
		subs:   make(map[string]*subEntry),
	}
	session.logger = c.Logger.With("connection", session.id, "user", userID)
	session.logger.InfoContext(ctx, "subscription connection opened")
	defer func() {
		cancel()
		session.wg.Wait()
		_ = conn.Close()
		session.logger.Info("subscription connection closed")
	}()

	decodeErrors := 0
	for {
		var frame inFrame
		if err := websocket.JSON.Receive(conn, &frame); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, websocket.ErrFrameTooLarge) {
				decodeErrors++
				session.sendError("", helpers.ErrCodeBadRequest, "invalid frame")
				if decodeErrors >= maxDecodeErrors {
					return
				}
				continue
			}
			if !errors.Is(err, io.EOF) {
				session.logger.DebugContext(ctx, "subscription read failed", "err", err)
			}
			return
		}
		decodeErrors = 0

		switch frame.Type {
		case frameConnectionInit:
			session.mu.Lock()
			session.initialized = true
			session.mu.Unlock()
			if err := session.send(outFrame{Type: frameConnectionAck}); err != nil {
				return
			}
		case frameStart:
			c.start(ctx, session, frame)
		case frameStop:
			session.stop(frame.ID)
		case frameConnectionTerminate:
			return
		default:
			session.sendError(frame.ID, helpers.ErrCodeBadRequest, fmt.Sprintf("unsupported frame type %q", frame.Type))
		}
	}
}

func (c *SubscriptionController) start(ctx context.Context, s *wsSession, frame inFrame) {
	s.mu.Lock()
	initialized := s.initialized
	_, duplicate := s.subs[frame.ID]
	s.mu.Unlock()
	switch {
	case !initialized:
		s.sendError(frame.ID, helpers.ErrCodeBadRequest, "connection_init required before start")
		return
	case frame.ID == "":
		s.sendError("", helpers.ErrCodeBadRequest, "start requires an id")
		return
	case duplicate:
		s.sendError(frame.ID, helpers.ErrCodeBadRequest, "subscription id already in use")
		return
	}

	var payload startPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil || payload.Field != FieldSlotChanged {
		s.sendError(frame.ID, helpers.ErrCodeBadRequest, "unknown subscription field")
		return
	}

	events, unsubscribe := c.Feed.Subscribe()
	subCtx, subCancel := context.WithCancel(ctx)
	slots, err := c.Notifier.SlotChanged(subCtx, events)
	if err != nil {
		subCancel()
		unsubscribe()
		if errors.Is(err, domain.ErrPermissionDenied) {
			s.sendError(frame.ID, helpers.ErrCodeForbidden, err.Error())
			return
		}
		s.logger.ErrorContext(ctx, "subscription start failed", "subscription", frame.ID, "err", err)
		s.sendError(frame.ID, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	s.mu.Lock()
	entry := &subEntry{cancel: subCancel}
	s.subs[frame.ID] = entry
	s.mu.Unlock()
	s.logger.DebugContext(ctx, "subscription started", "subscription", frame.ID)

	s.wg.Add(1)
	go s.pump(frame.ID, entry, slots, unsubscribe)
}

// pump forwards slots until the stream ends. The stream ends on stop, on
// connection close, or when the change feed drops this subscriber; only the
// last case is reported to the client with a complete frame.
func (s *wsSession) pump(id string, entry *subEntry, slots <-chan *domain.Slot, unsubscribe func()) {
	defer s.wg.Done()
	defer unsubscribe()
	defer entry.cancel()

	for slot := range slots {
		sent, err := s.sendData(id, entry, slotChangedPayload{SlotChanged: slot.ViewedBy(s.userID)})
		if err != nil {
			s.logger.Debug("subscription write failed", "subscription", id, "err", err)
			entry.cancel()
		} else if !sent {
			entry.cancel()
		}
	}

	s.mu.Lock()
	active := s.subs[id] == entry
	if active {
		delete(s.subs, id)
	}
	s.mu.Unlock()
	if active {
		_ = s.send(outFrame{Type: frameComplete, ID: id})
	}
}

func (s *wsSession) stop(id string) {
	s.mu.Lock()
	entry, ok := s.subs[id]
	delete(s.subs, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	entry.cancel()
	_ = s.send(outFrame{Type: frameComplete, ID: id})
}
