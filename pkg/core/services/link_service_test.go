package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-biolink/pkg/core/domain"
)

const owner = "owner-1"

func titles(links []domain.Link) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Title)
	}
	return out
}

// seedLinks creates A, B, C in order for the test owner.
func seedLinks(t *testing.T, svc *LinkService) []domain.Link {
	t.Helper()
	for _, title := range []string{"A", "B", "C"} {
		_, err := svc.Create(context.Background(), owner, title, "https://example.com/"+title)
		require.NoError(t, err)
	}
	links, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, titles(links))
	return links
}

func TestCreateAssignsIncreasingSortOrders(t *testing.T) {
	repo := newFakeLinkRepo()
	svc := NewLinkService(repo)

	var orders []int
	for _, title := range []string{"first", "second", "third"} {
		link, err := svc.Create(context.Background(), owner, title, "https://example.com")
		require.NoError(t, err)
		assert.True(t, link.IsActive, "new links default to active")
		orders = append(orders, link.SortOrder)
	}

	assert.Equal(t, []int{0, 1, 2}, orders)
}

func TestCreateContinuesFromMaxAfterDelete(t *testing.T) {
	repo := newFakeLinkRepo()
	svc := NewLinkService(repo)
	links := seedLinks(t, svc)

	// Deleting the middle link leaves a gap; the next create still goes
	// one past the maximum.
	require.NoError(t, svc.Delete(context.Background(), owner, links[1].ID))

	created, err := svc.Create(context.Background(), owner, "D", "https://example.com/D")
	require.NoError(t, err)
	assert.Equal(t, 3, created.SortOrder)
}

func TestCreateRejectsEmptyFields(t *testing.T) {
	repo := newFakeLinkRepo()
	svc := NewLinkService(repo)

	tests := []struct {
		name  string
		title string
		url   string
	}{
		{"empty title", "", "https://example.com"},
		{"empty url", "Example", ""},
		{"whitespace title", "   ", "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), owner, tt.title, tt.url)
			var validation *domain.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Zero(t, repo.createCalls, "no insert on validation failure")
		})
	}
}

func TestUpdateReplacesTitleAndURLOnly(t *testing.T) {
	repo := newFakeLinkRepo()
	svc := NewLinkService(repo)
	links := seedLinks(t, svc)

	_, err := svc.ToggleActive(context.Background(), owner, links[1].ID)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), owner, links[1].ID, "B2", "https://example.com/B2")
	require.NoError(t, err)

	assert.Equal(t, "B2", updated.Title)
	assert.Equal(t, "https://example.com/B2", updated.URL)
	assert.Equal(t, links[1].SortOrder, updated.SortOrder, "sort key untouched")
	assert.False(t, updated.IsActive, "active flag untouched")
	assert.Equal(t, owner, updated.UserID)
}

func TestUpdateUnknownLinkIsNotFound(t *testing.T) {
	svc := NewLinkService(newFakeLinkRepo())

	_, err := svc.Update(context.Background(), owner, "missing", "T", "https://example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateForeignLinkIsNotFound(t *testing.T) {
	repo := newFakeLinkRepo()
	svc := NewLinkService(repo)
	links := seedLinks(t, svc)

	_, err := svc.Update(context.Background(), "someone-else", links[0].ID, "T", "https://example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newFakeLinkRepo()
	svc := NewLinkService(repo)
	links := seedLinks(t, svc)

	require.NoError(t, svc.Delete(context.Background(), owner, links[0].ID))
	require.NoError(t, svc.Delete(context.Background(), owner, links[0].ID), "second delete still succeeds")
}

func TestToggleTwiceRestoresActiveFlag(t *testing.T) {
	repo := newFakeLinkRepo()
	svc := NewLinkService(repo)
	links := seedLinks(t, svc)

	once, err := svc.ToggleActive(context.Background(), owner, links[0].ID)
	require.NoError(t, err)
	assert.False(t, once.IsActive)

	twice, err := svc.ToggleActive(context.Background(), owner, links[0].ID)
	require.NoError(t, err)
	assert.True(t, twice.IsActive)
}

func TestMoveBoundaryIsNoOp(t *testing.T) {
	repo := newFakeLinkRepo()
	svc := NewLinkService(repo)
	seedLinks(t, svc)

	repo.sortOrderCalls = 0

	up, err := svc.Move(context.Background(), owner, 0, domain.MoveUp)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, titles(up))

	down, err := svc.Move(context.Background(), owner, 2, domain.MoveDown)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, titles(down))

	assert.Zero(t, repo.sortOrderCalls, "boundary moves issue no writes")
}

func TestMoveSwapsAdjacentPair(t *testing.T) {
	// Worked example: A(0), B(1), C(2). MoveUp(index=2) swaps B and C;
	// MoveDown(index=0) on the original list swaps A and B.
	t.Run("up", func(t *testing.T) {
		svc := NewLinkService(newFakeLinkRepo())
		seedLinks(t, svc)

		links, err := svc.Move(context.Background(), owner, 2, domain.MoveUp)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "C", "B"}, titles(links))
	})

	t.Run("down", func(t *testing.T) {
		svc := NewLinkService(newFakeLinkRepo())
		seedLinks(t, svc)

		links, err := svc.Move(context.Background(), owner, 0, domain.MoveDown)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "A", "C"}, titles(links))
	})
}

func TestMoveIsItsOwnInverse(t *testing.T) {
	for index := 0; index < 2; index++ {
		svc := NewLinkService(newFakeLinkRepo())
		original := seedLinks(t, svc)

		moved, err := svc.Move(context.Background(), owner, index, domain.MoveDown)
		require.NoError(t, err)
		restored, err := svc.Move(context.Background(), owner, index+1, domain.MoveUp)
		require.NoError(t, err)

		assert.Equal(t, titles(original), titles(restored), "down then up at index %d", index)
		assert.NotEqual(t, titles(original), titles(moved))
	}
}

func TestMoveOnlyTouchesTheSwappedPair(t *testing.T) {
	svc := NewLinkService(newFakeLinkRepo())
	original := seedLinks(t, svc)

	links, err := svc.Move(context.Background(), owner, 1, domain.MoveDown)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C", "B"}, titles(links))
	assert.Equal(t, original[0], links[0], "unaffected link unchanged")
}

func TestMoveInvalidIndexRejected(t *testing.T) {
	svc := NewLinkService(newFakeLinkRepo())
	seedLinks(t, svc)

	var validation *domain.ValidationError
	_, err := svc.Move(context.Background(), owner, -1, domain.MoveUp)
	assert.ErrorAs(t, err, &validation)
	_, err = svc.Move(context.Background(), owner, 3, domain.MoveDown)
	assert.ErrorAs(t, err, &validation)
	_, err = svc.Move(context.Background(), owner, 1, "sideways")
	assert.ErrorAs(t, err, &validation)
}

func TestMovePartialFailureReturnsStoredOrder(t *testing.T) {
	repo := newFakeLinkRepo()
	svc := NewLinkService(repo)
	links := seedLinks(t, svc)

	// One half of the swap fails; the other may have been applied. The
	// caller gets the error plus whatever order storage actually holds.
	repo.failSortOrderFor[links[1].ID] = true

	refetched, err := svc.Move(context.Background(), owner, 1, domain.MoveDown)

	var persistence *domain.PersistenceError
	require.ErrorAs(t, err, &persistence)
	require.NotNil(t, refetched)

	stored, listErr := svc.List(context.Background(), owner)
	require.NoError(t, listErr)
	assert.Equal(t, titles(stored), titles(refetched), "returned order matches storage, not the local swap")
}
