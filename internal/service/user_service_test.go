package service

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/models"
)

func newUserFixture(t *testing.T) (*fakeUserRepo, models.User, UserService) {
	t.Helper()
	users := newFakeUserRepo()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: string(hash),
		Role:     models.RoleStudent,
		Settings: models.DefaultUserSettings(),
	}
	require.NoError(t, users.Create(context.Background(), &user))

	svc := NewUserService(users, nil, nil, &stubActivity{}, validator.New(), 5, testLogger())
	return users, user, svc
}

func newUserFixtureWithRedis(t *testing.T) (models.User, UserService) {
	t.Helper()
	users := newFakeUserRepo()

	user := models.User{Name: "Alice", Email: "alice@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, users.Create(context.Background(), &user))

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	svc := NewUserService(users, redisClient, nil, &stubActivity{}, validator.New(), 5, testLogger())
	return user, svc
}

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }

func TestUserServiceUpdateProfilePartial(t *testing.T) {
	_, user, svc := newUserFixture(t)

	resp, err := svc.UpdateProfile(context.Background(), user.ID, dto.UpdateProfileRequest{
		Bio: stringPtr("Final-year CS student."),
	})
	require.NoError(t, err)
	require.Equal(t, "Final-year CS student.", resp.Bio)
	require.Equal(t, "Alice", resp.Name, "untouched fields keep their values")
}

func TestUserServiceUpdateProfileEmailConflict(t *testing.T) {
	users, user, svc := newUserFixture(t)

	other := models.User{Name: "Bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, users.Create(context.Background(), &other))

	_, err := svc.UpdateProfile(context.Background(), user.ID, dto.UpdateProfileRequest{
		Email: stringPtr("bob@example.com"),
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserServiceUpdateProfileEmailChangeResetsVerification(t *testing.T) {
	users, user, svc := newUserFixture(t)

	user.EmailVerified = true
	require.NoError(t, users.Update(context.Background(), &user))

	resp, err := svc.UpdateProfile(context.Background(), user.ID, dto.UpdateProfileRequest{
		Email: stringPtr("alice.new@example.com"),
	})
	require.NoError(t, err)
	require.Equal(t, "alice.new@example.com", resp.Email)
	require.False(t, resp.EmailVerified)
}

func TestUserServiceUpdateSkillsDeduplicates(t *testing.T) {
	_, user, svc := newUserFixture(t)

	resp, err := svc.UpdateSkills(context.Background(), user.ID, dto.UpdateSkillsRequest{
		Skills: []string{"Go", " SQL ", "Go"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Go", "SQL"}, resp.Skills)
}

func TestUserServiceUpdateSettingsMerges(t *testing.T) {
	_, user, svc := newUserFixture(t)

	resp, err := svc.UpdateSettings(context.Background(), user.ID, dto.UpdateSettingsRequest{
		EmailNotifications: boolPtr(false),
		Theme:              stringPtr("dark"),
	})
	require.NoError(t, err)
	require.False(t, resp.Settings.EmailNotifications)
	require.Equal(t, "dark", resp.Settings.Theme)
	require.True(t, resp.Settings.PushNotifications, "unmentioned settings are untouched")
	require.Equal(t, "campus", resp.Settings.ProfileVisibility)
}

func TestUserServiceChangePassword(t *testing.T) {
	users, user, svc := newUserFixture(t)

	err := svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordRequest{
		Current:     "wrong-password",
		NewPassword: "newpassword1",
	})
	require.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordRequest{
		Current:     "password123",
		NewPassword: "newpassword1",
	})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpassword1")))
}

func TestUserServiceDeleteAccount(t *testing.T) {
	_, user, svc := newUserFixture(t)

	require.NoError(t, svc.DeleteAccount(context.Background(), user.ID))
	require.ErrorIs(t, svc.DeleteAccount(context.Background(), user.ID), ErrUserNotFound)
}

func TestUserServiceVerifyEmail(t *testing.T) {
	_, user, svc := newUserFixture(t)

	resp, err := svc.VerifyEmail(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, resp.EmailVerified)
}

func TestUserServicePhoneOTPFlow(t *testing.T) {
	user, svc := newUserFixtureWithRedis(t)

	require.NoError(t, svc.SendPhoneOTP(context.Background(), user.ID, dto.SendPhoneOTPRequest{Phone: "+15550001111"}))

	_, err := svc.VerifyPhoneOTP(context.Background(), user.ID, dto.VerifyPhoneOTPRequest{Phone: "+15550001111", OTP: "000000"})
	if err == nil {
		// One-in-a-million collision with the generated code.
		t.Skip("generated code happened to be 000000")
	}
	require.ErrorIs(t, err, ErrInvalidOTP)
}

func TestUserServicePhoneOTPVerifySuccess(t *testing.T) {
	users := newFakeUserRepo()
	user := models.User{Name: "Alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, users.Create(context.Background(), &user))

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	svc := NewUserService(users, redisClient, nil, &stubActivity{}, validator.New(), 5, testLogger())

	// Plant a known code the way SendPhoneOTP stores it.
	require.NoError(t, redisClient.Set(context.Background(), otpKey(user.ID), "+15550001111:123456", otpTTL).Err())

	resp, err := svc.VerifyPhoneOTP(context.Background(), user.ID, dto.VerifyPhoneOTPRequest{Phone: "+15550001111", OTP: "123456"})
	require.NoError(t, err)
	require.True(t, resp.PhoneVerified)
	require.Equal(t, "+15550001111", resp.Phone)

	// The code is single-use.
	_, err = svc.VerifyPhoneOTP(context.Background(), user.ID, dto.VerifyPhoneOTPRequest{Phone: "+15550001111", OTP: "123456"})
	require.ErrorIs(t, err, ErrInvalidOTP)
}

func TestUserServicePhoneOTPExpires(t *testing.T) {
	users := newFakeUserRepo()
	user := models.User{Name: "Alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, users.Create(context.Background(), &user))

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	svc := NewUserService(users, redisClient, nil, &stubActivity{}, validator.New(), 5, testLogger())

	require.NoError(t, redisClient.Set(context.Background(), otpKey(user.ID), "+15550001111:123456", otpTTL).Err())
	server.FastForward(otpTTL + 1)

	_, err = svc.VerifyPhoneOTP(context.Background(), user.ID, dto.VerifyPhoneOTPRequest{Phone: "+15550001111", OTP: "123456"})
	require.ErrorIs(t, err, ErrInvalidOTP)
}

func TestUserServiceOTPUnavailableWithoutRedis(t *testing.T) {
	_, user, svc := newUserFixture(t)

	err := svc.SendPhoneOTP(context.Background(), user.ID, dto.SendPhoneOTPRequest{Phone: "+15550001111"})
	require.ErrorIs(t, err, ErrOTPUnavailable)
}
