package domain

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestGameRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  GameRecord
		wantErr bool
	}{
		{"valid", GameRecord{AppID: "g1", AppName: "Forest Quest"}, false},
		{"missing app_id", GameRecord{AppName: "Forest Quest"}, true},
		{"missing app_name", GameRecord{AppID: "g1"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.record.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestGameRecord_EmbeddingText(t *testing.T) {
	record := GameRecord{
		AppID:              "g1",
		AppName:            "Forest Quest",
		AppCategory:        "GAME_ADVENTURE",
		AppDescription:     "Explore a colorful forest",
		ScreenshotCaptions: []string{"a forest trail", "a wooden bridge"},
	}

	got := record.EmbeddingText()
	want := "Title: Forest Quest Category: GAME_ADVENTURE Description: Explore a colorful forest " +
		"Screenshot shows: a forest trail Screenshot shows: a wooden bridge"
	if got != want {
		t.Errorf("EmbeddingText() =\n%q\nwant\n%q", got, want)
	}
}

func TestGameRecord_EmbeddingText_SkipsAbsentFields(t *testing.T) {
	record := GameRecord{AppID: "g1", AppName: "Forest Quest"}

	got := record.EmbeddingText()
	if got != "Title: Forest Quest" {
		t.Errorf("EmbeddingText() = %q, want title only", got)
	}
}

func TestGameRecord_TruncatedDescription(t *testing.T) {
	long := strings.Repeat("x", DescriptionPayloadLimit+50)
	record := GameRecord{AppDescription: long}

	got := record.TruncatedDescription()
	if len(got) != DescriptionPayloadLimit {
		t.Errorf("expected %d chars, got %d", DescriptionPayloadLimit, len(got))
	}

	short := GameRecord{AppDescription: "short"}
	if short.TruncatedDescription() != "short" {
		t.Error("short description must pass through unchanged")
	}
}

func TestGameRecord_TruncatedDescription_MultiByte(t *testing.T) {
	long := strings.Repeat("é", DescriptionPayloadLimit+1)
	record := GameRecord{AppDescription: long}

	got := record.TruncatedDescription()
	if !utf8.ValidString(got) {
		t.Fatal("truncation must not cut inside a rune")
	}
	if n := utf8.RuneCountInString(got); n != DescriptionPayloadLimit {
		t.Errorf("expected %d runes, got %d", DescriptionPayloadLimit, n)
	}
}

func TestGameRecord_StoreLink(t *testing.T) {
	record := GameRecord{AppID: "com.example.game"}
	want := "https://play.google.com/store/apps/details?id=com.example.game"
	if got := record.StoreLink(); got != want {
		t.Errorf("StoreLink() = %q, want %q", got, want)
	}
}

func TestRecommendationError(t *testing.T) {
	cause := errors.New("quota exhausted")
	err := NewRecommendationFailed(StageEnhance, cause)

	if !errors.Is(err, ErrRecommendationFailed) {
		t.Error("expected errors.Is(err, ErrRecommendationFailed)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to survive wrapping")
	}

	var recErr *RecommendationError
	if !errors.As(err, &recErr) {
		t.Fatal("expected *RecommendationError")
	}
	if recErr.Stage != StageEnhance {
		t.Errorf("expected stage %s, got %s", StageEnhance, recErr.Stage)
	}
}
