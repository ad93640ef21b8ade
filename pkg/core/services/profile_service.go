package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/wadjakorntonsri/go-biolink/pkg/core/domain"
	"github.com/wadjakorntonsri/go-biolink/pkg/ports"
)

var reUsername = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type ProfileService struct {
	profiles ports.ProfileRepository
	links    ports.LinkRepository
}

func NewProfileService(profiles ports.ProfileRepository, links ports.LinkRepository) *ProfileService {
	return &ProfileService{profiles: profiles, links: links}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get profile", Err: err}
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

// Update validates and canonicalizes the username, pre-checks uniqueness
// when it changed, then writes username, full_name and avatar_url in one
// go. The pre-check is advisory; the UNIQUE index on profiles.username is
// the authoritative guard, and a violation reported by the write itself
// comes back as the same conflict error.
func (s *ProfileService) Update(ctx context.Context, userID, username, fullName, avatarURL string) (*domain.Profile, error) {
	if !reUsername.MatchString(username) {
		return nil, &domain.ValidationError{Reason: "username may only contain letters, numbers and underscores"}
	}
	username = strings.ToLower(username)

	profile, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get profile", Err: err}
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}

	if username != profile.Username {
		existing, err := s.profiles.GetProfileByUsername(ctx, username)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "check username", Err: err}
		}
		if existing != nil && existing.ID != userID {
			return nil, domain.ErrConflict
		}
	}

	profile.Username = username
	profile.FullName = fullName
	if trimmed := strings.TrimSpace(avatarURL); trimmed == "" {
		profile.AvatarURL = nil // empty avatar is stored as absent
	} else {
		profile.AvatarURL = &trimmed
	}
	profile.UpdatedAt = time.Now()

	if err := s.profiles.UpdateProfile(ctx, profile); err != nil {
		if err == domain.ErrConflict {
			return nil, domain.ErrConflict
		}
		return nil, &domain.PersistenceError{Op: "update profile", Err: err}
	}
	return profile, nil
}

// ResolvePublic is the anonymous read path: one profile looked up by
// lowercased username plus its active links, sort_order ascending. No side
// effects.
func (s *ProfileService) ResolvePublic(ctx context.Context, username string) (*domain.PublicProfile, error) {
	profile, err := s.profiles.GetProfileByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return nil, &domain.PersistenceError{Op: "resolve profile", Err: err}
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}

	links, err := s.links.ListActiveLinks(ctx, profile.ID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list active links", Err: err}
	}

	return &domain.PublicProfile{Profile: *profile, Links: links}, nil
}
