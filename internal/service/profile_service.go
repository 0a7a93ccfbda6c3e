package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/repository"
)

// maxLogoBytes bounds the logo kept inside the profile snapshot
const maxLogoBytes = 2 << 20

// ProfileService manages the single local user profile
type ProfileService interface {
	// Get returns the profile; ok is false when nobody has signed in
	Get(ctx context.Context) (profile domain.UserProfile, ok bool, err error)

	// SignIn creates the profile. An empty company name becomes "My Company".
	SignIn(ctx context.Context, email, companyName string) (domain.UserProfile, error)

	Save(ctx context.Context, in domain.ProfileInput) (domain.UserProfile, error)

	// SetLogo reads an image file and stores it as a data URI
	SetLogo(ctx context.Context, path string) (domain.UserProfile, error)
	RemoveLogo(ctx context.Context) (domain.UserProfile, error)

	// SignOut clears the profile; business data is kept
	SignOut(ctx context.Context) error
}

type profileService struct {
	profileRepo repository.ProfileRepository
	logger      *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo repository.ProfileRepository, logger *slog.Logger) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

func (s *profileService) Get(ctx context.Context) (domain.UserProfile, bool, error) {
	return s.profileRepo.Load(ctx)
}

func (s *profileService) SignIn(ctx context.Context, email, companyName string) (domain.UserProfile, error) {
	if strings.TrimSpace(companyName) == "" {
		companyName = domain.DefaultCompanyName
	}

	in := domain.ProfileInput{Email: email, CompanyName: companyName}
	if err := in.Validate().Err(); err != nil {
		return domain.UserProfile{}, err
	}

	profile := domain.UserProfile{ID: uuid.NewString()}
	profile.Apply(in)

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info("signed in", "email", profile.Email)
	return profile, nil
}

func (s *profileService) current(ctx context.Context) (domain.UserProfile, error) {
	profile, ok, err := s.profileRepo.Load(ctx)
	if err != nil {
		return domain.UserProfile{}, err
	}
	if !ok {
		return domain.UserProfile{}, ErrNotSignedIn
	}
	return profile, nil
}

func (s *profileService) Save(ctx context.Context, in domain.ProfileInput) (domain.UserProfile, error) {
	if err := in.Validate().Err(); err != nil {
		return domain.UserProfile{}, err
	}

	profile, err := s.current(ctx)
	if err != nil {
		return domain.UserProfile{}, err
	}
	profile.Apply(in)

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info("profile updated")
	return profile, nil
}

func (s *profileService) SetLogo(ctx context.Context, path string) (domain.UserProfile, error) {
	profile, err := s.current(ctx)
	if err != nil {
		return domain.UserProfile{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to read logo: %w", err)
	}
	uri, err := imageDataURI(data)
	if err != nil {
		return domain.UserProfile{}, err
	}

	profile.Logo = uri
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info("logo updated", "bytes", len(data))
	return profile, nil
}

func (s *profileService) RemoveLogo(ctx context.Context) (domain.UserProfile, error) {
	profile, err := s.current(ctx)
	if err != nil {
		return domain.UserProfile{}, err
	}

	profile.Logo = ""
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) SignOut(ctx context.Context) error {
	if err := s.profileRepo.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("signed out")
	return nil
}

// imageDataURI encodes raw image bytes as a base64 data URI
func imageDataURI(data []byte) (string, error) {
	if len(data) > maxLogoBytes {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrNotAnImage, maxLogoBytes)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
