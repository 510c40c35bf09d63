package service

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campus-api/internal/dto"
)

func supportPayload() dto.SupportRequest {
	return dto.SupportRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Category: "technical",
		Issue:    "The opportunities page keeps timing out.",
	}
}

func TestSupportServiceRelaysToInbox(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewSupportService(nil, mailer, "desk@example.com", validator.New(), testLogger())

	resp, err := svc.Submit(context.Background(), supportPayload())
	require.NoError(t, err)
	require.NotEmpty(t, resp.ReferenceID)

	deliveries := mailer.deliveries()
	require.Len(t, deliveries, 1)
	require.Equal(t, "desk@example.com", deliveries[0].to)
	require.Contains(t, deliveries[0].subject, "technical")
}

func TestSupportServiceDeliveryFailureSurfaces(t *testing.T) {
	mailer := &stubMailer{err: errRepoDown}
	svc := NewSupportService(nil, mailer, "desk@example.com", validator.New(), testLogger())

	_, err := svc.Submit(context.Background(), supportPayload())
	require.ErrorIs(t, err, ErrSupportDelivery)
}

func TestSupportServiceDuplicateSuppressed(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	mailer := &stubMailer{}
	svc := NewSupportService(redisClient, mailer, "desk@example.com", validator.New(), testLogger())

	_, err = svc.Submit(context.Background(), supportPayload())
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), supportPayload())
	require.ErrorIs(t, err, ErrSupportDuplicate)
	require.Len(t, mailer.deliveries(), 1)
}

func TestSupportServiceValidation(t *testing.T) {
	svc := NewSupportService(nil, &stubMailer{}, "", validator.New(), testLogger())

	_, err := svc.Submit(context.Background(), dto.SupportRequest{Name: "A", Email: "not-an-email", Category: "", Issue: "short"})
	require.Error(t, err)
}
