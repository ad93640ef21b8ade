package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wadjakorntonsri/go-biolink/pkg/core/domain"
	"github.com/wadjakorntonsri/go-biolink/pkg/ports"
)

type LinkService struct {
	repo ports.LinkRepository
}

func NewLinkService(repo ports.LinkRepository) *LinkService {
	return &LinkService{repo: repo}
}

func (s *LinkService) List(ctx context.Context, ownerID string) ([]domain.Link, error) {
	links, err := s.repo.ListLinks(ctx, ownerID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list links", Err: err}
	}
	return links, nil
}

func (s *LinkService) Create(ctx context.Context, ownerID, title, url string) (*domain.Link, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if title == "" {
		return nil, &domain.ValidationError{Reason: "title is required"}
	}
	if url == "" {
		return nil, &domain.ValidationError{Reason: "url is required"}
	}

	order, err := s.repo.NextSortOrder(ctx, ownerID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "next sort order", Err: err}
	}

	now := time.Now()
	link := &domain.Link{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Title:     title,
		URL:       url,
		SortOrder: order,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateLink(ctx, link); err != nil {
		return nil, &domain.PersistenceError{Op: "create link", Err: err}
	}
	return link, nil
}

func (s *LinkService) Update(ctx context.Context, ownerID, id, title, url string) (*domain.Link, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if title == "" {
		return nil, &domain.ValidationError{Reason: "title is required"}
	}
	if url == "" {
		return nil, &domain.ValidationError{Reason: "url is required"}
	}

	link, err := s.repo.GetLink(ctx, ownerID, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get link", Err: err}
	}
	if link == nil {
		return nil, domain.ErrNotFound
	}

	link.Title = title
	link.URL = url
	link.UpdatedAt = time.Now()

	if err := s.repo.UpdateLink(ctx, link); err != nil {
		return nil, &domain.PersistenceError{Op: "update link", Err: err}
	}
	return link, nil
}

// Delete is idempotent: a stale id is treated as success, the caller's
// confirmation already happened.
func (s *LinkService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.DeleteLink(ctx, ownerID, id); err != nil {
		return &domain.PersistenceError{Op: "delete link", Err: err}
	}
	return nil
}

func (s *LinkService) ToggleActive(ctx context.Context, ownerID, id string) (*domain.Link, error) {
	link, err := s.repo.GetLink(ctx, ownerID, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get link", Err: err}
	}
	if link == nil {
		return nil, domain.ErrNotFound
	}

	// Read-modify-write, last write wins under races.
	link.IsActive = !link.IsActive
	link.UpdatedAt = time.Now()

	if err := s.repo.UpdateLink(ctx, link); err != nil {
		return nil, &domain.PersistenceError{Op: "toggle link", Err: err}
	}
	return link, nil
}

// Move swaps the sort keys of the link at index and its neighbour, then
// refetches the canonical order. The two writes are independent and run
// concurrently; there is no transaction around the pair, so on a partial
// failure the refetched list is what reconciles the displayed state.
func (s *LinkService) Move(ctx context.Context, ownerID string, index int, direction domain.MoveDirection) ([]domain.Link, error) {
	if direction != domain.MoveUp && direction != domain.MoveDown {
		return nil, &domain.ValidationError{Reason: "direction must be up or down"}
	}

	links, err := s.repo.ListLinks(ctx, ownerID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list links", Err: err}
	}

	neighbour := index - 1
	if direction == domain.MoveDown {
		neighbour = index + 1
	}

	if index < 0 || index >= len(links) {
		return nil, &domain.ValidationError{Reason: "index out of range"}
	}
	if neighbour < 0 || neighbour >= len(links) {
		// Already at the boundary: nothing to swap, no writes issued.
		return links, nil
	}

	a, b := links[index], links[neighbour]

	// Both neighbour updates are issued regardless of the other's fate,
	// which is why this is a plain group and not errgroup.WithContext.
	var g errgroup.Group
	g.Go(func() error {
		return s.repo.UpdateSortOrder(ctx, ownerID, a.ID, b.SortOrder)
	})
	g.Go(func() error {
		return s.repo.UpdateSortOrder(ctx, ownerID, b.ID, a.SortOrder)
	})
	writeErr := g.Wait()

	// Refetch unconditionally: locally swapped copies are never trusted as
	// source of truth, and after a half-applied swap only storage knows the
	// real order. No rollback of the successful half is attempted.
	refreshed, err := s.repo.ListLinks(ctx, ownerID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "refetch links", Err: err}
	}
	if writeErr != nil {
		return refreshed, &domain.PersistenceError{Op: "move link", Err: writeErr}
	}
	return refreshed, nil
}
