package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no business profile has been configured yet.
var ErrNotFound = errors.New("business profile not configured")

type Service interface {
	GetProfile(ctx context.Context) (*Profile, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error)
}

type profileService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &profileService{repo: repo, logger: logger}
}

func (s *profileService) GetProfile(ctx context.Context) (*Profile, error) {
	profile, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// UpdateProfile patches the singleton row, creating it on first use.
func (s *profileService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	profile, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business profile: %w", err)
	}
	if profile == nil {
		profile = &Profile{ID: uuid.New()}
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&profile.Name, req.Name)
	apply(&profile.TaxID, req.TaxID)
	apply(&profile.Address, req.Address)
	apply(&profile.Phone, req.Phone)
	apply(&profile.Email, req.Email)
	apply(&profile.DigesaNumber, req.DigesaNumber)
	apply(&profile.BankName, req.BankName)
	apply(&profile.BankAccount, req.BankAccount)
	apply(&profile.BankCCI, req.BankCCI)
	apply(&profile.TechnicalDirector, req.TechnicalDirector)
	apply(&profile.ResponsibleKey, req.ResponsibleKey)
	apply(&profile.DirectorKey, req.DirectorKey)
	apply(&profile.LetterheadKey, req.LetterheadKey)

	if profile.Name == "" || profile.TaxID == "" {
		return nil, fmt.Errorf("business profile requires name and tax id")
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save business profile: %w", err)
	}

	s.logger.Info("Business profile updated", zap.String("profile_id", profile.ID.String()))
	return profile, nil
}
