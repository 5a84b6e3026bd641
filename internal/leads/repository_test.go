package leads

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repositoryContract runs the behavior every Repository must share.
func repositoryContract(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.Create(ctx, &CreateLeadRequest{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrInvalidName)

	first, err := repo.Create(ctx, &CreateLeadRequest{
		FirstName:         "Maria",
		LastName:          "Lopez",
		Email:             "maria@example.com",
		InsuranceInterest: "Medigap",
		SessionID:         "sess-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := repo.Create(ctx, &CreateLeadRequest{FirstName: "Sam", Phone: "5551234567"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Lopez", got.FullName())
	assert.Equal(t, "Medigap", got.InsuranceInterest)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, SourceChatForm, got.Source)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrLeadNotFound)

	all, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	page, err := repo.List(ctx, ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)

	empty, err := repo.List(ctx, ListFilter{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInMemoryRepository(t *testing.T) {
	repo := NewInMemoryRepository()
	tick := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	repositoryContract(t, repo)
}

func TestInMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewInMemoryRepository()
	lead, err := repo.Create(context.Background(), &CreateLeadRequest{FirstName: "Ann", Phone: "5551234567"})
	require.NoError(t, err)
	lead.FirstName = "Mutated"

	stored, err := repo.GetByID(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", stored.FirstName)
}

func TestSQLiteRepository(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	tick := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	repositoryContract(t, repo)
}

func TestSQLitePath(t *testing.T) {
	assert.Equal(t, "./leads.db", SQLitePath("sqlite:///./leads.db"))
	assert.Equal(t, "leads.db", SQLitePath("sqlite://leads.db"))
	assert.Equal(t, "/var/lib/clara/leads.db", SQLitePath("sqlite:///var/lib/clara/leads.db"))
}
