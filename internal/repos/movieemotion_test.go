package repos

import (
	"context"
	"sort"
	"testing"

	"github.com/moodpick/moodpick-backend/internal/types"
)

func seedTags(t *testing.T, repo MovieEmotionRepo) {
	t.Helper()
	tags := []*types.MovieEmotion{
		{MovieID: 1, EmotionLabel: "happy"},
		{MovieID: 1, EmotionLabel: "relaxed"},
		{MovieID: 2, EmotionLabel: "sad"},
		{MovieID: 3, EmotionLabel: "happy"},
	}
	if _, err := repo.Create(context.Background(), nil, tags); err != nil {
		t.Fatalf("seed tags: %v", err)
	}
}

func TestLabelsByMovieIDs(t *testing.T) {
	repo := NewMovieEmotionRepo(newTestDB(t), testLog())
	seedTags(t, repo)

	labels, err := repo.LabelsByMovieIDs(context.Background(), nil, []int64{1, 2, 99})
	if err != nil {
		t.Fatalf("LabelsByMovieIDs: %v", err)
	}
	got := labels[1]
	sort.Strings(got)
	if len(got) != 2 || got[0] != "happy" || got[1] != "relaxed" {
		t.Fatalf("movie 1 labels=%v, want [happy relaxed]", got)
	}
	if len(labels[2]) != 1 || labels[2][0] != "sad" {
		t.Fatalf("movie 2 labels=%v, want [sad]", labels[2])
	}
	if _, ok := labels[99]; ok {
		t.Fatal("untagged movie appeared in the label map")
	}
}

func TestMovieIDsByLabels(t *testing.T) {
	repo := NewMovieEmotionRepo(newTestDB(t), testLog())
	seedTags(t, repo)

	ids, err := repo.MovieIDsByLabels(context.Background(), nil, []string{"happy"})
	if err != nil {
		t.Fatalf("MovieIDsByLabels: %v", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Fatalf("ids=%v, want [1 3]", ids)
	}

	ids, err = repo.MovieIDsByLabels(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("MovieIDsByLabels empty: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("ids=%v, want empty for no labels", ids)
	}
}

func TestMovieEmotionDelete(t *testing.T) {
	repo := NewMovieEmotionRepo(newTestDB(t), testLog())
	seedTags(t, repo)
	ctx := context.Background()

	tags, total, err := repo.List(ctx, nil, 1, 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Fatalf("movie 1 tag total=%d, want 2", total)
	}

	if err := repo.DeleteByID(ctx, nil, tags[0].ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	gone, err := repo.GetByID(ctx, nil, tags[0].ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if gone != nil {
		t.Fatal("tag still present after delete")
	}
}
