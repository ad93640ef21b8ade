package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/wadjakorntonsri/go-biolink/pkg/core/domain"
)

var errStorage = errors.New("storage down")

// fakeLinkRepo is an in-memory LinkRepository that counts calls, so tests
// can assert which persistence operations an operation did (or did not)
// issue. A mutex guards it because Move writes from two goroutines.
type fakeLinkRepo struct {
	mu sync.Mutex

	links map[string]domain.Link

	listCalls      int
	sortOrderCalls int
	createCalls    int
	updateCalls    int

	failSortOrderFor map[string]bool
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{
		links:            map[string]domain.Link{},
		failSortOrderFor: map[string]bool{},
	}
}

func (f *fakeLinkRepo) ordered(ownerID string, activeOnly bool) []domain.Link {
	var out []domain.Link
	for _, l := range f.links {
		if l.UserID != ownerID {
			continue
		}
		if activeOnly && !l.IsActive {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeLinkRepo) ListLinks(_ context.Context, ownerID string) ([]domain.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.ordered(ownerID, false), nil
}

func (f *fakeLinkRepo) ListActiveLinks(_ context.Context, ownerID string) ([]domain.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.ordered(ownerID, true), nil
}

func (f *fakeLinkRepo) GetLink(_ context.Context, ownerID, id string) (*domain.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.links[id]
	if !ok || l.UserID != ownerID {
		return nil, nil
	}
	return &l, nil
}

func (f *fakeLinkRepo) CreateLink(_ context.Context, link *domain.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.links[link.ID] = *link
	return nil
}

func (f *fakeLinkRepo) NextSortOrder(_ context.Context, ownerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := 0
	for _, l := range f.links {
		if l.UserID == ownerID && l.SortOrder >= next {
			next = l.SortOrder + 1
		}
	}
	return next, nil
}

func (f *fakeLinkRepo) UpdateLink(_ context.Context, link *domain.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	stored, ok := f.links[link.ID]
	if !ok || stored.UserID != link.UserID {
		return nil
	}
	stored.Title = link.Title
	stored.URL = link.URL
	stored.IsActive = link.IsActive
	stored.UpdatedAt = link.UpdatedAt
	f.links[link.ID] = stored
	return nil
}

func (f *fakeLinkRepo) UpdateSortOrder(_ context.Context, ownerID, id string, sortOrder int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sortOrderCalls++
	if f.failSortOrderFor[id] {
		return errStorage
	}
	stored, ok := f.links[id]
	if !ok || stored.UserID != ownerID {
		return nil
	}
	stored.SortOrder = sortOrder
	f.links[id] = stored
	return nil
}

func (f *fakeLinkRepo) DeleteLink(_ context.Context, ownerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stored, ok := f.links[id]; ok && stored.UserID == ownerID {
		delete(f.links, id)
	}
	return nil
}

// fakeProfileRepo mirrors fakeLinkRepo for profiles.
type fakeProfileRepo struct {
	profiles map[string]domain.Profile

	getByIDCalls       int
	getByUsernameCalls int
	updateCalls        int
	createCalls        int

	updateErr error
}

func newFakeProfileRepo(profiles ...domain.Profile) *fakeProfileRepo {
	f := &fakeProfileRepo{profiles: map[string]domain.Profile{}}
	for _, p := range profiles {
		f.profiles[p.ID] = p
	}
	return f
}

func (f *fakeProfileRepo) CreateProfile(_ context.Context, profile *domain.Profile) error {
	f.createCalls++
	for _, p := range f.profiles {
		if p.Username == profile.Username {
			return domain.ErrConflict
		}
	}
	f.profiles[profile.ID] = *profile
	return nil
}

func (f *fakeProfileRepo) GetProfileByID(_ context.Context, id string) (*domain.Profile, error) {
	f.getByIDCalls++
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProfileRepo) GetProfileByUsername(_ context.Context, username string) (*domain.Profile, error) {
	f.getByUsernameCalls++
	for _, p := range f.profiles {
		if p.Username == username {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepo) UpdateProfile(_ context.Context, profile *domain.Profile) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.profiles[profile.ID] = *profile
	return nil
}

// fakeAccountRepo backs the auth service tests.
type fakeAccountRepo struct {
	accounts map[string]domain.Account // by id

	createCalls int
}

func newFakeAccountRepo(accounts ...domain.Account) *fakeAccountRepo {
	f := &fakeAccountRepo{accounts: map[string]domain.Account{}}
	for _, a := range accounts {
		f.accounts[a.ID] = a
	}
	return f
}

func (f *fakeAccountRepo) CreateAccount(_ context.Context, account *domain.Account) error {
	f.createCalls++
	for _, a := range f.accounts {
		if a.Email == account.Email {
			return domain.ErrConflict
		}
	}
	f.accounts[account.ID] = *account
	return nil
}

func (f *fakeAccountRepo) GetAccountByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeAccountRepo) GetAccountByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}
