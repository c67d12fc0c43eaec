package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/repository"
)

// AliasCooldown is how long a user must wait between alias changes.
const AliasCooldown = 14 * 24 * time.Hour

// ProfileService handles profile reads and edits, the alias guard, and the
// follow graph.
type ProfileService struct {
	profiles  repository.ProfileRepository
	directory repository.UserDirectory
	logger    *slog.Logger
}

func NewProfileService(profiles repository.ProfileRepository, directory repository.UserDirectory, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		directory: directory,
		logger:    logger,
	}
}

// UpdateProfileInput carries the owner-editable profile fields.
type UpdateProfileInput struct {
	DisplayName string
	Bio         string
	Location    string
	Website     string
	PhoneNumber string
	Embeds      []model.Embed
}

// GetOwn returns the caller's own profile document, phone number included.
// The private alias-change timestamp is stripped unless the owner asked for
// it. A missing document returns (nil, nil); profile creation happens
// elsewhere, and the caller renders an empty profile.
func (s *ProfileService) GetOwn(ctx context.Context, uid string, includeAliasData bool) (*model.Profile, error) {
	profile, err := s.profiles.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !includeAliasData {
		profile.LastAliasChanged = 0
	}
	return profile, nil
}

// GetChatProfile returns the public view of a profile addressed by uid or
// by "@alias". Private fields are stripped and the photo URL is taken from
// the identity provider, not the stored document.
//
// A uid lookup with no profile document returns (nil, nil); an alias that
// matches nothing is NotFound.
func (s *ProfileService) GetChatProfile(ctx context.Context, ref string) (*model.Profile, error) {
	var profile *model.Profile
	var err error

	if strings.Contains(ref, "@") {
		profile, err = s.profiles.FindByAlias(ctx, strings.TrimPrefix(ref, "@"))
		if err != nil {
			return nil, err
		}
	} else {
		profile, err = s.profiles.Get(ctx, ref)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
	}

	account, err := s.directory.GetUser(ctx, profile.UID)
	if err != nil {
		return nil, err
	}

	public := profile.PublicView()
	public.PhotoURL = account.PhotoURL
	return &public, nil
}

// Update merges the editable fields into the existing profile document and
// pushes the display name to the identity provider. The profile must
// already exist; the stored verified flag is preserved.
func (s *ProfileService) Update(ctx context.Context, uid string, in UpdateProfileInput) error {
	if strings.TrimSpace(in.DisplayName) == "" {
		return apperror.ValidationFailed("displayName", "Display name is required")
	}
	for _, embed := range in.Embeds {
		if !embed.Type.Valid() {
			return apperror.ValidationFailed("embeds", "Invalid embed type")
		}
	}

	existing, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return err
	}

	if err := s.directory.UpdateUser(ctx, uid, in.DisplayName, ""); err != nil {
		return fmt.Errorf("pushing display name: %w", err)
	}

	fields := map[string]any{
		"uid":         uid,
		"displayName": in.DisplayName,
		"bio":         in.Bio,
		"location":    in.Location,
		"website":     in.Website,
		"phoneNumber": in.PhoneNumber,
		"embeds":      in.Embeds,
		"verified":    existing.Verified,
	}
	if err := s.profiles.Merge(ctx, uid, fields); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	s.logger.Info("profile updated", slog.String("uid", uid))
	return nil
}

// SetAlias changes the caller's unique handle, subject to the 14-day
// cooldown and a global uniqueness check. The check and the write are two
// separate operations; a concurrent claim of the same alias can slip
// between them.
func (s *ProfileService) SetAlias(ctx context.Context, uid, alias string) error {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return apperror.ValidationFailed("alias", "Alias is required")
	}

	existing, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return err
	}

	if existing.LastAliasChanged > 0 {
		last := time.UnixMilli(existing.LastAliasChanged)
		if time.Since(last) < AliasCooldown {
			return apperror.RateLimited("You can only change your alias every 14 days.")
		}
	}

	_, err = s.profiles.FindByAlias(ctx, alias)
	switch {
	case err == nil:
		return apperror.Conflict("Alias is already taken")
	case !errors.Is(err, apperror.ErrNotFound):
		return fmt.Errorf("checking alias availability: %w", err)
	}

	fields := map[string]any{
		"alias":              alias,
		"__lastAliasChanged": time.Now().UnixMilli(),
	}
	if err := s.profiles.Merge(ctx, uid, fields); err != nil {
		return fmt.Errorf("setting alias: %w", err)
	}

	s.logger.Info("alias changed", slog.String("uid", uid), slog.String("alias", alias))
	return nil
}

// ResolveAlias maps a handle (with or without the leading "@") to a uid.
func (s *ProfileService) ResolveAlias(ctx context.Context, handle string) (string, error) {
	profile, err := s.profiles.FindByAlias(ctx, strings.TrimPrefix(handle, "@"))
	if err != nil {
		return "", err
	}
	return profile.UID, nil
}

// ToggleFollow flips the actor→target edge and returns the new state.
func (s *ProfileService) ToggleFollow(ctx context.Context, actorUID, targetUID string) (bool, error) {
	if actorUID == targetUID {
		return false, apperror.ValidationFailed("uid", "Cannot follow yourself")
	}

	following, err := s.profiles.ToggleFollow(ctx, actorUID, targetUID)
	if err != nil {
		return false, err
	}

	s.logger.Info("follow toggled",
		slog.String("actor", actorUID),
		slog.String("target", targetUID),
		slog.Bool("following", following),
	)
	return following, nil
}

// Following returns who uid follows; a missing profile is an empty list.
func (s *ProfileService) Following(ctx context.Context, uid string) ([]string, error) {
	profile, err := s.profiles.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	if profile.Following == nil {
		return []string{}, nil
	}
	return profile.Following, nil
}
