package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	run := uuid.New()
	for _, e := range []ScoreEntry{
		{LevelID: "level01", Difficulty: "easy", Score: 7500, Remaining: 15 * time.Second, RunID: run},
		{LevelID: "level01", Difficulty: "easy", Score: 5000},
		{LevelID: "level01", Difficulty: "easy", Score: 9000},
		{LevelID: "level01", Difficulty: "hard", Score: 100},
		{LevelID: "arcade", Difficulty: "easy", Mode: "arcade", Score: 1234},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("level01", "easy", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	want := []int{9000, 7500, 5000}
	for i, s := range scores {
		if s.Score != want[i] {
			t.Errorf("scores[%d] = %d, want %d", i, s.Score, want[i])
		}
		if s.ID == uuid.Nil {
			t.Errorf("scores[%d] has no id", i)
		}
	}
	if scores[1].RunID != run {
		t.Errorf("RunID = %v, want %v", scores[1].RunID, run)
	}
	if scores[1].Remaining != 15*time.Second {
		t.Errorf("Remaining = %v, want 15s", scores[1].Remaining)
	}
	if scores[1].Mode != "level" {
		t.Errorf("Mode = %q, want default \"level\"", scores[1].Mode)
	}

	top1, err := store.TopScores("level01", "easy", 1)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top1) != 1 || top1[0].Score != 9000 {
		t.Errorf("TopScores(limit 1) = %+v", top1)
	}

	arcade, err := store.TopScores("arcade", "easy", 0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(arcade) != 1 || arcade[0].Mode != "arcade" {
		t.Errorf("arcade scores = %+v", arcade)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("level02", "normal")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for empty level, got %d", high)
	}

	store.SaveScore(ScoreEntry{LevelID: "level02", Difficulty: "normal", Score: 300})
	store.SaveScore(ScoreEntry{LevelID: "level02", Difficulty: "normal", Score: 800})
	store.SaveScore(ScoreEntry{LevelID: "level02", Difficulty: "hard", Score: 9999})

	high, err = store.HighScore("level02", "normal")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 800 {
		t.Errorf("Expected high score 800, got %d", high)
	}
}

func TestStoreSaveIfBest(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		score int
		saved bool
	}{
		{5000, true},
		{4000, false},
		{5000, false},
		{6000, true},
	}
	for _, tt := range tests {
		saved, err := store.SaveIfBest(ScoreEntry{LevelID: "level03", Difficulty: "easy", Score: tt.score})
		if err != nil {
			t.Fatalf("SaveIfBest(%d) failed: %v", tt.score, err)
		}
		if saved != tt.saved {
			t.Errorf("SaveIfBest(%d) = %v, want %v", tt.score, saved, tt.saved)
		}
	}

	stats, err := store.Stats("level03", "easy")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Plays != 2 || stats.HighScore != 6000 || stats.AvgScore != 5500 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}
}

func TestStoreClearAndAllStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore(ScoreEntry{LevelID: "a", Difficulty: "easy", Score: 10})
	store.SaveScore(ScoreEntry{LevelID: "a", Difficulty: "hard", Score: 20})
	store.SaveScore(ScoreEntry{LevelID: "b", Difficulty: "easy", Score: 30})

	all, err := store.AllStats()
	if err != nil {
		t.Fatalf("AllStats() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(all))
	}
	if all[0].LevelID != "a" || all[0].Difficulty != "easy" || all[2].LevelID != "b" {
		t.Errorf("AllStats() order = %+v", all)
	}

	if err := store.ClearScores("a"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	all, err = store.AllStats()
	if err != nil {
		t.Fatalf("AllStats() failed: %v", err)
	}
	if len(all) != 1 || all[0].LevelID != "b" {
		t.Errorf("after clear AllStats() = %+v", all)
	}

	stats, err := store.Stats("a", "easy")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Plays != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Stats() on cleared level = %+v", stats)
	}
}
