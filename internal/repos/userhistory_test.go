package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moodpick/moodpick-backend/internal/types"
)

func historyRecord(userID uuid.UUID, movieID int64, kind string, watchedAt time.Time) *types.UserHistory {
	return &types.UserHistory{
		ID:          uuid.New(),
		UserID:      userID,
		MovieID:     movieID,
		Interaction: kind,
		WatchedAt:   watchedAt,
	}
}

func TestUserHistoryLookupAndTouch(t *testing.T) {
	repo := NewUserHistoryRepo(newTestDB(t), testLog())
	ctx := context.Background()
	userID := uuid.New()

	rec := historyRecord(userID, 7, types.InteractionViewed, time.Now().Add(-time.Hour))
	if _, err := repo.Create(ctx, nil, []*types.UserHistory{rec}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.GetByUserMovieKind(ctx, nil, userID, 7, types.InteractionViewed)
	if err != nil {
		t.Fatalf("GetByUserMovieKind: %v", err)
	}
	if found == nil || found.ID != rec.ID {
		t.Fatalf("found=%+v, want record %s", found, rec.ID)
	}

	missing, err := repo.GetByUserMovieKind(ctx, nil, userID, 7, types.InteractionLiked)
	if err != nil {
		t.Fatalf("GetByUserMovieKind miss: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for a different kind, got %+v", missing)
	}

	later := time.Now()
	if err := repo.Touch(ctx, nil, rec.ID, later); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	refreshed, _ := repo.GetByUserMovieKind(ctx, nil, userID, 7, types.InteractionViewed)
	if !refreshed.WatchedAt.After(rec.WatchedAt) {
		t.Fatalf("watched_at=%v, want later than %v", refreshed.WatchedAt, rec.WatchedAt)
	}
}

func TestUserHistoryListOrder(t *testing.T) {
	repo := NewUserHistoryRepo(newTestDB(t), testLog())
	ctx := context.Background()
	userID := uuid.New()
	base := time.Now()

	records := []*types.UserHistory{
		historyRecord(userID, 1, types.InteractionViewed, base.Add(-3*time.Hour)),
		historyRecord(userID, 2, types.InteractionLiked, base.Add(-1*time.Hour)),
		historyRecord(userID, 3, types.InteractionClicked, base.Add(-2*time.Hour)),
		historyRecord(uuid.New(), 4, types.InteractionViewed, base),
	}
	if _, err := repo.Create(ctx, nil, records); err != nil {
		t.Fatalf("Create: %v", err)
	}

	entries, total, err := repo.ListByUser(ctx, nil, userID, 1, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if total != 3 {
		t.Fatalf("total=%d, want 3 (other user's row excluded)", total)
	}
	// Most recent first.
	want := []int64{2, 3, 1}
	for i, e := range entries {
		if e.MovieID != want[i] {
			t.Fatalf("position %d movie=%d, want %d", i, e.MovieID, want[i])
		}
	}
}

func TestMovieIDsByUserAndKinds(t *testing.T) {
	repo := NewUserHistoryRepo(newTestDB(t), testLog())
	ctx := context.Background()
	userID := uuid.New()
	base := time.Now()

	records := []*types.UserHistory{
		historyRecord(userID, 1, types.InteractionViewed, base.Add(-3*time.Hour)),
		historyRecord(userID, 2, types.InteractionLiked, base.Add(-1*time.Hour)),
		historyRecord(userID, 3, types.InteractionClicked, base.Add(-2*time.Hour)),
	}
	if _, err := repo.Create(ctx, nil, records); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ids, err := repo.MovieIDsByUserAndKinds(ctx, nil, userID, []string{types.InteractionViewed, types.InteractionLiked}, 0)
	if err != nil {
		t.Fatalf("MovieIDsByUserAndKinds: %v", err)
	}
	// Clicked is not requested; order is most recent first.
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 1 {
		t.Fatalf("ids=%v, want [2 1]", ids)
	}

	// The limit keeps the freshest rows.
	ids, err = repo.MovieIDsByUserAndKinds(ctx, nil, userID, []string{types.InteractionViewed, types.InteractionLiked}, 1)
	if err != nil {
		t.Fatalf("MovieIDsByUserAndKinds limited: %v", err)
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("ids=%v, want [2]", ids)
	}

	ids, err = repo.MovieIDsByUserAndKinds(ctx, nil, uuid.Nil, []string{types.InteractionViewed}, 0)
	if err != nil {
		t.Fatalf("MovieIDsByUserAndKinds nil user: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("ids=%v, want empty for uuid.Nil", ids)
	}
}
