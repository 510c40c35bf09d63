package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campus-api/internal/dto"
)

func newRealtimeFixture(t *testing.T) *realtimeService {
	t.Helper()
	svc, ok := NewRealtimeService(nil, "", nil, validator.New(), testLogger()).(*realtimeService)
	require.True(t, ok)
	return svc
}

func newRealtimeTestClient(svc *realtimeService, userID uint) *realtimeClient {
	return &realtimeClient{
		send:    make(chan dto.RealtimeEnvelope, realtimeSendBufferSize),
		options: RealtimeConnectionOptions{UserID: userID},
		service: svc,
		closed:  make(chan struct{}),
	}
}

func receivedEnvelopes(client *realtimeClient) []dto.RealtimeEnvelope {
	var envelopes []dto.RealtimeEnvelope
	for {
		select {
		case envelope := <-client.send:
			envelopes = append(envelopes, envelope)
		default:
			return envelopes
		}
	}
}

func TestRealtimeHubBroadcastAllReachesEveryClient(t *testing.T) {
	svc := newRealtimeFixture(t)

	first := newRealtimeTestClient(svc, 1)
	second := newRealtimeTestClient(svc, 2)
	svc.hub.register(first)
	svc.hub.register(second)

	message := NewRealtimeMessage()
	message.Message = "campus closed tomorrow"
	svc.BroadcastAll(dto.EventAnnouncement, message)

	for _, client := range []*realtimeClient{first, second} {
		envelopes := receivedEnvelopes(client)
		require.Len(t, envelopes, 1)
		require.Equal(t, dto.EventAnnouncement, envelopes[0].Event)
		require.Equal(t, "campus closed tomorrow", envelopes[0].Payload.Message)
	}
}

func TestRealtimeHubUserTopicIsolation(t *testing.T) {
	svc := newRealtimeFixture(t)

	joined := newRealtimeTestClient(svc, 7)
	outsider := newRealtimeTestClient(svc, 8)
	unjoined := newRealtimeTestClient(svc, 7)
	svc.hub.register(joined)
	svc.hub.register(outsider)
	svc.hub.register(unjoined)
	svc.hub.join(joined, 7)

	message := NewRealtimeMessage()
	message.Message = "your interview is confirmed"
	svc.BroadcastUser(7, dto.EventNotification, message)

	require.Len(t, receivedEnvelopes(joined), 1)
	require.Empty(t, receivedEnvelopes(outsider))
	require.Empty(t, receivedEnvelopes(unjoined), "connections that never joined their topic get nothing")
}

func TestRealtimeHubLateSubscriberMissesBroadcast(t *testing.T) {
	svc := newRealtimeFixture(t)

	early := newRealtimeTestClient(svc, 1)
	svc.hub.register(early)

	message := NewRealtimeMessage()
	message.Message = "first"
	svc.BroadcastAll(dto.EventAnnouncement, message)

	late := newRealtimeTestClient(svc, 2)
	svc.hub.register(late)

	require.Len(t, receivedEnvelopes(early), 1)
	require.Empty(t, receivedEnvelopes(late), "no replay for clients connecting after publish")
}

func TestRealtimeHubPublishOrderPreserved(t *testing.T) {
	svc := newRealtimeFixture(t)

	client := newRealtimeTestClient(svc, 1)
	svc.hub.register(client)

	for _, text := range []string{"one", "two", "three"} {
		message := NewRealtimeMessage()
		message.Message = text
		svc.BroadcastAll(dto.EventAnnouncement, message)
	}

	envelopes := receivedEnvelopes(client)
	require.Len(t, envelopes, 3)
	require.Equal(t, "one", envelopes[0].Payload.Message)
	require.Equal(t, "two", envelopes[1].Payload.Message)
	require.Equal(t, "three", envelopes[2].Payload.Message)
}

func TestRealtimeHubSlowClientDropsInsteadOfBlocking(t *testing.T) {
	svc := newRealtimeFixture(t)

	slow := newRealtimeTestClient(svc, 1)
	slow.send = make(chan dto.RealtimeEnvelope, 1)
	svc.hub.register(slow)

	for i := 0; i < 3; i++ {
		svc.BroadcastAll(dto.EventAnnouncement, NewRealtimeMessage())
	}

	require.Len(t, receivedEnvelopes(slow), 1)
}

func TestRealtimeServiceAnnounceSanitizes(t *testing.T) {
	svc := newRealtimeFixture(t)

	client := newRealtimeTestClient(svc, 1)
	svc.hub.register(client)

	resp, err := svc.Announce(context.Background(), dto.AnnouncementRequest{
		Title:   "Notice",
		Message: `<script>alert("x")</script>Library hours extended`,
	})
	require.NoError(t, err)
	require.Equal(t, "Library hours extended", resp.Message)
	require.NotZero(t, resp.ID)

	envelopes := receivedEnvelopes(client)
	require.Len(t, envelopes, 1)
	require.Equal(t, dto.EventAnnouncement, envelopes[0].Event)
}

func TestRealtimeServiceAnnounceRejectsEmptyMessage(t *testing.T) {
	svc := newRealtimeFixture(t)

	_, err := svc.Announce(context.Background(), dto.AnnouncementRequest{Message: `<script>only markup</script>`})
	require.Error(t, err)
}

func TestRealtimeServiceNotifyUserValidation(t *testing.T) {
	svc := newRealtimeFixture(t)

	_, err := svc.NotifyUser(context.Background(), dto.NotifyUserRequest{Message: "missing target"})
	require.Error(t, err)

	joined := newRealtimeTestClient(svc, 42)
	svc.hub.register(joined)
	svc.hub.join(joined, 42)

	_, err = svc.NotifyUser(context.Background(), dto.NotifyUserRequest{UserID: 42, Message: "direct notice"})
	require.NoError(t, err)
	require.Len(t, receivedEnvelopes(joined), 1)
}
