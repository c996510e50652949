package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paynote/internal/dto"
	"paynote/internal/models"

	"go.uber.org/zap"
)

type ProfileService struct {
	users  UserStore
	logger *zap.Logger
}

func NewProfileService(users UserStore, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		users:  users,
		logger: logger,
	}
}

// EnsureProfile returns the owner's profile, creating it on first use. Owners
// authenticated by an external identity provider have no row until then.
func (s *ProfileService) EnsureProfile(ctx context.Context, session models.Session) (*models.User, error) {
	user, err := s.users.GetByID(ctx, session.OwnerID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: load profile: %w", models.ErrPersistence, err)
	}

	// users.email is unique and required.
	email := strings.ToLower(strings.TrimSpace(session.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no email to create the profile", models.ErrValidation)
	}

	now := time.Now()
	user = &models.User{
		ID:           session.OwnerID,
		Email:        email,
		FullName:     session.FullName,
		Plan:         models.PlanFree,
		InvoiceLimit: models.DefaultInvoiceLimit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent request for the same owner.
		if errors.Is(err, models.ErrUserExists) {
			if existing, getErr := s.users.GetByID(ctx, session.OwnerID); getErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("%w: create profile: %w", models.ErrPersistence, err)
	}

	s.logger.Info("Profile created", zap.String("user_id", user.ID.String()))

	return user, nil
}

func (s *ProfileService) UpdateIssuer(ctx context.Context, session models.Session, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.EnsureProfile(ctx, session)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.CompanyName != nil {
		user.CompanyName = blankToNil(*req.CompanyName)
	}
	if req.SIRET != nil {
		siret := strings.ReplaceAll(*req.SIRET, " ", "")
		if siret != "" && !isDigits(siret, 14) {
			return nil, fmt.Errorf("%w: siret must be 14 digits", models.ErrValidation)
		}
		user.SIRET = blankToNil(siret)
	}
	if req.Address != nil {
		user.Address = blankToNil(*req.Address)
	}

	if err := s.users.UpdateIssuer(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: update profile: %w", models.ErrPersistence, err)
	}

	return user, nil
}
