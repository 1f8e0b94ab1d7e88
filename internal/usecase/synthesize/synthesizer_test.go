package synthesize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/vibefinder/vibefinder/internal/domain"
)

func TestRenderDigest(t *testing.T) {
	hits := []domain.SearchHit{
		{
			GameRecord: domain.GameRecord{
				AppID:       "com.example.forest",
				AppName:     "Forest Quest",
				AppCategory: "Adventure",
				AppDescription: "Wander a hand-painted forest solving gentle puzzles " +
					strings.Repeat("and collecting fireflies ", 10),
				ScreenshotCaptions: []string{"misty woods", "campfire menu", "map screen"},
			},
			SimilarityScore: 0.9137,
		},
		{
			GameRecord:      domain.GameRecord{AppID: "com.example.drift", AppName: "Space Drift"},
			SimilarityScore: 0.7,
		},
	}

	digest := renderDigest(hits)

	if !strings.Contains(digest, "1. [Forest Quest](https://play.google.com/store/apps/details?id=com.example.forest) (Score: 0.91)") {
		t.Errorf("digest missing first entry header:\n%s", digest)
	}
	if !strings.Contains(digest, "   Category: Adventure\n") {
		t.Errorf("digest missing category:\n%s", digest)
	}
	if !strings.Contains(digest, "     - misty woods\n     - campfire menu\n") {
		t.Errorf("digest should list first two captions:\n%s", digest)
	}
	if strings.Contains(digest, "map screen") {
		t.Error("digest should cap captions at two")
	}
	if !strings.Contains(digest, "   Description: ") || !strings.Contains(digest, "...") {
		t.Errorf("digest missing truncated description:\n%s", digest)
	}
	for _, line := range strings.Split(digest, "\n") {
		if strings.Contains(line, "Description:") && len(line) > len("   Description: ")+digestDescriptionLimit+3 {
			t.Errorf("description line too long: %d chars", len(line))
		}
	}
	if !strings.Contains(digest, "2. [Space Drift](https://play.google.com/store/apps/details?id=com.example.drift) (Score: 0.70)") {
		t.Errorf("digest missing second entry:\n%s", digest)
	}
	if !strings.Contains(digest, "   Category: Unknown\n") {
		t.Errorf("missing category should render as Unknown:\n%s", digest)
	}
}

func TestRenderDigest_MultiByteDescription(t *testing.T) {
	hits := []domain.SearchHit{
		{
			GameRecord: domain.GameRecord{
				AppID:          "com.example.go",
				AppName:        "囲碁の達人",
				AppDescription: strings.Repeat("碁", digestDescriptionLimit+1),
			},
			SimilarityScore: 0.8,
		},
	}

	digest := renderDigest(hits)

	if !utf8.ValidString(digest) {
		t.Fatal("digest must not cut a description inside a rune")
	}
	want := "   Description: " + strings.Repeat("碁", digestDescriptionLimit) + "...\n"
	if !strings.Contains(digest, want) {
		t.Errorf("digest should keep %d characters of the description:\n%s", digestDescriptionLimit, digest)
	}
}

func TestRenderDigest_Empty(t *testing.T) {
	if got := renderDigest(nil); got != "" {
		t.Errorf("renderDigest(nil) = %q, want empty", got)
	}
}

type fakeChatModel struct {
	prompt  string
	content string
	err     error
}

func (f *fakeChatModel) Complete(ctx context.Context, prompt string) (domain.ChatResult, error) {
	f.prompt = prompt
	if f.err != nil {
		return domain.ChatResult{}, f.err
	}
	return domain.ChatResult{Content: f.content, TotalTokens: 40}, nil
}

func TestSynthesize(t *testing.T) {
	llm := &fakeChatModel{content: "Try Forest Quest, it matches your cozy vibe."}
	syn := NewSynthesizer(llm, zap.NewNop())

	hits := []domain.SearchHit{
		{GameRecord: domain.GameRecord{AppID: "g1", AppName: "Forest Quest"}, SimilarityScore: 0.9},
	}
	got, err := syn.Synthesize(context.Background(), "cozy forest adventure", hits)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if got != "Try Forest Quest, it matches your cozy vibe." {
		t.Errorf("Synthesize() = %q", got)
	}
	if !strings.Contains(llm.prompt, "The user is looking for: cozy forest adventure") {
		t.Error("prompt should embed the user query")
	}
	if !strings.Contains(llm.prompt, "[Forest Quest](https://play.google.com/store/apps/details?id=g1)") {
		t.Error("prompt should embed the rendered digest")
	}
}

func TestSynthesize_ModelError(t *testing.T) {
	modelErr := errors.New("provider down")
	syn := NewSynthesizer(&fakeChatModel{err: modelErr}, zap.NewNop())

	_, err := syn.Synthesize(context.Background(), "anything", nil)
	if !errors.Is(err, modelErr) {
		t.Fatalf("Synthesize() error = %v, want wrapped model error", err)
	}
}
