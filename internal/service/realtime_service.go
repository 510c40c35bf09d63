package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/observability"
)

const realtimeSendBufferSize = 32

// ErrEmptyMessage is returned when a message has no content left after
// sanitization.
var ErrEmptyMessage = errors.New("message empty after sanitization")

// Broadcaster is the write side of the realtime channel. Services push
// events through it without knowing about websocket connections.
type Broadcaster interface {
	BroadcastAll(event string, message dto.RealtimeMessage)
	BroadcastUser(userID uint, event string, message dto.RealtimeMessage)
}

// RealtimeConnectionOptions wraps metadata extracted during the HTTP upgrade.
type RealtimeConnectionOptions struct {
	UserID        uint
	Role          string
	CorrelationID string
	Context       context.Context
}

// RealtimeService manages websocket subscribers and fan-out of
// announcements, notifications and interview status events.
type RealtimeService interface {
	Broadcaster
	ServeConnection(conn *websocket.Conn, opts RealtimeConnectionOptions)
	Announce(ctx context.Context, req dto.AnnouncementRequest) (dto.RealtimeMessage, error)
	NotifyUser(ctx context.Context, req dto.NotifyUserRequest) (dto.RealtimeMessage, error)
	Start(ctx context.Context)
}

type realtimeService struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	validator    *validator.Validate
	sanitizer    *bluemonday.Policy
	logger       zerolog.Logger
	hub          *realtimeHub
	nodeID       string
	tracer       trace.Tracer
}

// realtimeHub tracks connected clients. Every client receives global
// events; per-user events only reach clients that joined their topic.
type realtimeHub struct {
	mu      sync.RWMutex
	clients map[*realtimeClient]struct{}
	users   map[uint]map[*realtimeClient]struct{}
	log     zerolog.Logger
}

type realtimeClient struct {
	conn    *websocket.Conn
	send    chan dto.RealtimeEnvelope
	options RealtimeConnectionOptions
	service *realtimeService
	closed  chan struct{}
	once    sync.Once
	joined  bool
}

// realtimeEvent is the cross-node relay envelope published to redis and
// NATS so every API node can fan out to its local subscribers.
type realtimeEvent struct {
	Source   string               `json:"source"`
	Scope    string               `json:"scope"`
	UserID   uint                 `json:"user_id,omitempty"`
	Envelope dto.RealtimeEnvelope `json:"envelope"`
	SentAt   time.Time            `json:"sent_at"`
}

const (
	scopeAll  = "all"
	scopeUser = "user"
)

// NewRealtimeService creates the realtime fan-out service. redisClient
// and natsConn may be nil; the hub then serves a single node only.
func NewRealtimeService(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, validate *validator.Validate, logger zerolog.Logger) RealtimeService {
	hub := &realtimeHub{
		clients: make(map[*realtimeClient]struct{}),
		users:   make(map[uint]map[*realtimeClient]struct{}),
		log:     logger.With().Str("component", "realtime_hub").Logger(),
	}

	redisChannel := ""
	natsSubject := ""
	if channelBase != "" {
		redisChannel = channelBase + ":events"
		natsSubject = strings.ReplaceAll(channelBase, ":", ".") + ".events"
	}

	return &realtimeService{
		redis:        redisClient,
		redisChannel: redisChannel,
		nats:         natsConn,
		natsSubject:  natsSubject,
		validator:    validate,
		sanitizer:    bluemonday.StrictPolicy(),
		logger:       logger.With().Str("component", "realtime_service").Logger(),
		hub:          hub,
		nodeID:       uuid.NewString(),
		tracer:       otel.Tracer("github.com/campusconnect/campus-api/internal/service"),
	}
}

func (s *realtimeService) Start(ctx context.Context) {
	if s.redis != nil && s.redisChannel != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *realtimeService) ServeConnection(conn *websocket.Conn, opts RealtimeConnectionOptions) {
	client := &realtimeClient{
		conn:    conn,
		send:    make(chan dto.RealtimeEnvelope, realtimeSendBufferSize),
		options: opts,
		service: s,
		closed:  make(chan struct{}),
	}

	s.hub.register(client)
	observability.RealtimeClients().Inc()
	defer observability.RealtimeClients().Dec()

	go client.writer()
	client.reader()
}

// NewRealtimeMessage stamps a payload the way clients expect: a
// millisecond id and a creation time.
func NewRealtimeMessage() dto.RealtimeMessage {
	now := time.Now().UTC()
	return dto.RealtimeMessage{
		ID:        now.UnixMilli(),
		CreatedAt: now,
	}
}

func (s *realtimeService) Announce(ctx context.Context, req dto.AnnouncementRequest) (dto.RealtimeMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RealtimeMessage{}, err
	}

	_, span := s.tracer.Start(ctx, "realtime.announce",
		trace.WithAttributes(attribute.String("event", dto.EventAnnouncement)))
	defer span.End()

	message := NewRealtimeMessage()
	message.Title = strings.TrimSpace(s.sanitizer.Sanitize(req.Title))
	message.Message = strings.TrimSpace(s.sanitizer.Sanitize(req.Message))
	if message.Message == "" {
		return dto.RealtimeMessage{}, ErrEmptyMessage
	}

	s.BroadcastAll(dto.EventAnnouncement, message)
	return message, nil
}

func (s *realtimeService) NotifyUser(ctx context.Context, req dto.NotifyUserRequest) (dto.RealtimeMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RealtimeMessage{}, err
	}

	_, span := s.tracer.Start(ctx, "realtime.notify_user",
		trace.WithAttributes(attribute.Int64("user_id", int64(req.UserID))))
	defer span.End()

	message := NewRealtimeMessage()
	message.Title = strings.TrimSpace(s.sanitizer.Sanitize(req.Title))
	message.Message = strings.TrimSpace(s.sanitizer.Sanitize(req.Message))
	if message.Message == "" {
		return dto.RealtimeMessage{}, ErrEmptyMessage
	}

	s.BroadcastUser(req.UserID, dto.EventNotification, message)
	return message, nil
}

func (s *realtimeService) BroadcastAll(event string, message dto.RealtimeMessage) {
	envelope := dto.RealtimeEnvelope{Event: event, Payload: message}
	s.hub.broadcastAll(envelope)
	observability.RealtimeBroadcasts().WithLabelValues(event).Inc()
	s.publish(realtimeEvent{Source: s.nodeID, Scope: scopeAll, Envelope: envelope, SentAt: time.Now().UTC()})
}

func (s *realtimeService) BroadcastUser(userID uint, event string, message dto.RealtimeMessage) {
	envelope := dto.RealtimeEnvelope{Event: event, Payload: message}
	s.hub.broadcastUser(userID, envelope)
	observability.RealtimeBroadcasts().WithLabelValues(event).Inc()
	s.publish(realtimeEvent{Source: s.nodeID, Scope: scopeUser, UserID: userID, Envelope: envelope, SentAt: time.Now().UTC()})
}

func (s *realtimeService) publish(event realtimeEvent) {
	if (s.redis == nil || s.redisChannel == "") && (s.nats == nil || s.natsSubject == "") {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal realtime event")
		return
	}

	if s.redis != nil && s.redisChannel != "" {
		if err := s.redis.Publish(context.Background(), s.redisChannel, payload).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish realtime event to redis")
		}
	}
	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish realtime event to nats")
		}
	}
}

func (s *realtimeService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisChannel)
	defer func() {
		_ = pubsub.Close()
	}()
	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("realtime redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *realtimeService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "campus-realtime", func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats realtime subject")
		return
	}
	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain realtime nats subscription")
		}
	}()
}

func (s *realtimeService) handleEvent(data []byte) {
	var event realtimeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid realtime event")
		return
	}

	if event.Source == s.nodeID {
		return
	}

	switch event.Scope {
	case scopeUser:
		s.hub.broadcastUser(event.UserID, event.Envelope)
	default:
		s.hub.broadcastAll(event.Envelope)
	}
}

func (h *realtimeHub) register(client *realtimeClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = struct{}{}
	h.log.Debug().Uint("user_id", client.options.UserID).Msg("realtime client connected")
}

func (h *realtimeHub) join(client *realtimeClient, userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.joined {
		return
	}
	if _, exists := h.users[userID]; !exists {
		h.users[userID] = make(map[*realtimeClient]struct{})
	}
	h.users[userID][client] = struct{}{}
	client.joined = true
	h.log.Debug().Uint("user_id", userID).Msg("realtime client joined user topic")
}

func (h *realtimeHub) unregister(client *realtimeClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, client)
	userID := client.options.UserID
	if subscribers, ok := h.users[userID]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.users, userID)
		}
	}
	h.log.Debug().Uint("user_id", userID).Msg("realtime client disconnected")
}

func (h *realtimeHub) broadcastAll(envelope dto.RealtimeEnvelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.deliver(envelope, h.log)
	}
}

func (h *realtimeHub) broadcastUser(userID uint, envelope dto.RealtimeEnvelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.users[userID] {
		client.deliver(envelope, h.log)
	}
}

func (c *realtimeClient) deliver(envelope dto.RealtimeEnvelope, log zerolog.Logger) {
	select {
	case c.send <- envelope:
	default:
		log.Warn().Uint("user_id", c.options.UserID).Str("event", envelope.Event).Msg("dropping realtime event for slow client")
	}
}

func (c *realtimeClient) reader() {
	defer c.close()

	for {
		var payload dto.JoinRequest
		if err := c.conn.ReadJSON(&payload); err != nil {
			c.service.logger.Debug().Err(err).Msg("realtime read loop ended")
			return
		}

		if payload.Event != dto.ControlJoinUser {
			continue
		}
		// The topic comes from the verified token, never from the
		// client-supplied id.
		if payload.UserID != 0 && payload.UserID != c.options.UserID {
			c.service.logger.Warn().
				Uint("user_id", c.options.UserID).
				Uint("claimed_id", payload.UserID).
				Msg("rejecting join for mismatched user id")
			continue
		}
		c.service.hub.join(c, c.options.UserID)
	}
}

func (c *realtimeClient) writer() {
	defer c.close()

	for {
		select {
		case envelope, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(envelope); err != nil {
				c.service.logger.Debug().Err(err).Msg("realtime write loop terminated")
				return
			}
		case <-time.After(30 * time.Second):
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				c.service.logger.Debug().Err(err).Msg("realtime ping failed")
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *realtimeClient) close() {
	c.once.Do(func() {
		close(c.closed)
		c.service.hub.unregister(c)
		_ = c.conn.Close()
	})
}
