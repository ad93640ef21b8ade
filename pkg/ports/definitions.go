package ports

import (
	"context"

	"github.com/wadjakorntonsri/go-biolink/pkg/core/domain"
)

// AccountRepository defines storage operations for credentials
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccountByID(ctx context.Context, id string) (*domain.Account, error)
	// GetAccountByEmail expects the email already lowercased. Returns
	// (nil, nil) when no row matches.
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// ProfileRepository defines storage operations for profiles
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	GetProfileByID(ctx context.Context, id string) (*domain.Profile, error)
	// GetProfileByUsername expects the username already lowercased.
	// Returns (nil, nil) when no row matches.
	GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
}

// LinkRepository defines storage operations for a user's links
type LinkRepository interface {
	// ListLinks returns all of the owner's links, sort_order ascending
	// (id breaks ties so the order stays deterministic).
	ListLinks(ctx context.Context, ownerID string) ([]domain.Link, error)
	// ListActiveLinks is ListLinks filtered to is_active = true.
	ListActiveLinks(ctx context.Context, ownerID string) ([]domain.Link, error)
	// GetLink returns (nil, nil) when the id does not exist or belongs
	// to another owner.
	GetLink(ctx context.Context, ownerID, id string) (*domain.Link, error)
	CreateLink(ctx context.Context, link *domain.Link) error
	// NextSortOrder returns max(sort_order)+1 for the owner, 0 when the
	// owner has no links yet.
	NextSortOrder(ctx context.Context, ownerID string) (int, error)
	// UpdateLink writes title, url, is_active and updated_at; sort_order
	// and user_id are never touched here.
	UpdateLink(ctx context.Context, link *domain.Link) error
	UpdateSortOrder(ctx context.Context, ownerID, id string, sortOrder int) error
	// DeleteLink is idempotent: deleting an absent id is not an error.
	DeleteLink(ctx context.Context, ownerID, id string) error
}

// LinkService defines the link-management business logic
type LinkService interface {
	List(ctx context.Context, ownerID string) ([]domain.Link, error)
	Create(ctx context.Context, ownerID, title, url string) (*domain.Link, error)
	Update(ctx context.Context, ownerID, id, title, url string) (*domain.Link, error)
	Delete(ctx context.Context, ownerID, id string) error
	ToggleActive(ctx context.Context, ownerID, id string) (*domain.Link, error)
	// Move swaps the link at index with its neighbour and returns the
	// canonical order refetched from storage. A boundary index is a
	// no-op that performs no writes.
	Move(ctx context.Context, ownerID string, index int, direction domain.MoveDirection) ([]domain.Link, error)
}

// ProfileService defines profile management and the public read path
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID, username, fullName, avatarURL string) (*domain.Profile, error)
	ResolvePublic(ctx context.Context, username string) (*domain.PublicProfile, error)
}

// AuthService defines registration and credential checks
type AuthService interface {
	Register(ctx context.Context, email, password, username string) (*domain.Profile, error)
	Login(ctx context.Context, email, password string) (*domain.Account, error)
	// EnsureAccount finds or provisions the account+profile pair for an
	// externally authenticated email (Google sign-in).
	EnsureAccount(ctx context.Context, email, fullName string) (*domain.Account, error)
}
