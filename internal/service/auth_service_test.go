package service_test

import (
	"context"
	"testing"
	"time"

	"paynote/internal/dto"
	"paynote/internal/mocks"
	"paynote/internal/models"
	"paynote/internal/service"
	"paynote/pkg/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) (*service.AuthService, *mocks.MockUserStore, *auth.JWTManager) {
	t.Helper()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return service.NewAuthService(users, jwtManager, zap.NewNop()), users, jwtManager
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	svc, users, jwtManager := newAuthService(t)

	users.EXPECT().GetByEmail(gomock.Any(), "marie@example.fr").Return(nil, models.ErrNotFound)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
		require.NotNil(t, u.PasswordHash)
		require.True(t, auth.CheckPasswordHash("secret-pass", *u.PasswordHash))
		require.Equal(t, models.PlanFree, u.Plan)
		require.Equal(t, 5, u.InvoiceLimit)
		require.Zero(t, u.InvoiceCount)
		return nil
	})

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    " Marie@Example.fr ",
		Password: "secret-pass",
		FullName: "Marie Curie",
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer", resp.TokenType)
	require.Equal(t, int64(3600), resp.ExpiresIn)
	require.Equal(t, "marie@example.fr", resp.User.Email)

	claims, err := jwtManager.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, "Marie Curie", claims.FullName)
}

func TestAuthService_RegisterRejects(t *testing.T) {
	t.Parallel()

	t.Run("existing email", func(t *testing.T) {
		t.Parallel()

		svc, users, _ := newAuthService(t)
		users.EXPECT().GetByEmail(gomock.Any(), "a@b.fr").Return(&models.User{}, nil)

		_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "a@b.fr", Password: "12345678"})
		require.ErrorIs(t, err, models.ErrUserExists)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newAuthService(t)

		_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "a@b.fr", Password: "1234"})
		require.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "marie@example.fr", PasswordHash: &hash}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		svc, users, _ := newAuthService(t)
		users.EXPECT().GetByEmail(gomock.Any(), "marie@example.fr").Return(user, nil)

		resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "marie@example.fr", Password: "secret-pass"})
		require.NoError(t, err)
		require.Equal(t, user.ID.String(), resp.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		svc, users, _ := newAuthService(t)
		users.EXPECT().GetByEmail(gomock.Any(), "marie@example.fr").Return(user, nil)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "marie@example.fr", Password: "nope"})
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
		require.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("profile without password", func(t *testing.T) {
		t.Parallel()

		svc, users, _ := newAuthService(t)
		users.EXPECT().GetByEmail(gomock.Any(), "ext@example.fr").Return(&models.User{ID: uuid.New()}, nil)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ext@example.fr", Password: "x"})
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Parallel()

	svc, users, jwtManager := newAuthService(t)
	user := &models.User{ID: uuid.New(), Email: "marie@example.fr"}

	refresh, err := jwtManager.GenerateRefreshToken(user.ID.String())
	require.NoError(t, err)
	access, err := jwtManager.GenerateToken(user.ID.String(), user.Email, "")
	require.NoError(t, err)

	users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	resp, err := svc.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	_, err = svc.RefreshToken(context.Background(), access)
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestProfileService_UpdateIssuer(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	svc := service.NewProfileService(users, zap.NewNop())
	session := models.Session{OwnerID: uuid.New()}

	company := "  Curie Conseil "
	siret := "123 456 789 01234"
	empty := " "

	users.EXPECT().GetByID(gomock.Any(), session.OwnerID).Return(&models.User{ID: session.OwnerID}, nil)
	users.EXPECT().UpdateIssuer(gomock.Any(), gomock.Any()).Return(nil)

	user, err := svc.UpdateIssuer(context.Background(), session, &dto.UpdateProfileRequest{
		CompanyName: &company,
		SIRET:       &siret,
		Address:     &empty,
	})
	require.NoError(t, err)
	require.Equal(t, "Curie Conseil", *user.CompanyName)
	require.Equal(t, "12345678901234", *user.SIRET)
	require.Nil(t, user.Address)

	bad := "12AB"
	users.EXPECT().GetByID(gomock.Any(), session.OwnerID).Return(&models.User{ID: session.OwnerID}, nil)
	_, err = svc.UpdateIssuer(context.Background(), session, &dto.UpdateProfileRequest{SIRET: &bad})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestProfileService_EnsureProfileRequiresEmail(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	svc := service.NewProfileService(users, zap.NewNop())
	session := models.Session{OwnerID: uuid.New(), Email: "  "}

	users.EXPECT().GetByID(gomock.Any(), session.OwnerID).Return(nil, models.ErrNotFound)

	user, err := svc.EnsureProfile(context.Background(), session)
	require.Nil(t, user)
	require.ErrorIs(t, err, models.ErrValidation)
	require.NotErrorIs(t, err, models.ErrPersistence)
}

func TestProfileService_EnsureProfileExistingWithoutEmail(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	svc := service.NewProfileService(users, zap.NewNop())
	session := models.Session{OwnerID: uuid.New()}

	users.EXPECT().GetByID(gomock.Any(), session.OwnerID).Return(&models.User{ID: session.OwnerID, Email: "a@b.fr"}, nil)

	user, err := svc.EnsureProfile(context.Background(), session)
	require.NoError(t, err)
	require.Equal(t, "a@b.fr", user.Email)
}
