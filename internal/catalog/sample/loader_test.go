package sample

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "games.json")
	data := `{
  "games": [
    {
      "app_id": "sample_game_1",
      "app_name": "Sample Adventure Game",
      "app_category": "GAME_ADVENTURE",
      "app_description": "An exciting adventure game with puzzles and exploration.",
      "screenshot_captions": [
        "A character exploring a colorful forest",
        "A puzzle screen with various objects to interact with"
      ],
      "rating": 4.5,
      "app_icon": "https://example.com/icon1.png"
    },
    {
      "app_id": "sample_game_2",
      "app_name": "Sample Puzzle Game",
      "app_category": "GAME_PUZZLE",
      "app_description": "A challenging puzzle game with colorful visuals.",
      "rating": 4.2
    }
  ]
}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	games, err := NewLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("Load() returned %d games, want 2", len(games))
	}
	if games[0].AppID != "sample_game_1" || games[0].AppName != "Sample Adventure Game" {
		t.Errorf("games[0] = %+v", games[0])
	}
	if len(games[0].ScreenshotCaptions) != 2 {
		t.Errorf("games[0] captions = %v", games[0].ScreenshotCaptions)
	}
	if games[1].Rating != 4.2 {
		t.Errorf("games[1] rating = %v", games[1].Rating)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.json")).Load(context.Background())
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader(path).Load(context.Background()); err == nil {
		t.Fatal("Load() expected error for malformed JSON")
	}
}
