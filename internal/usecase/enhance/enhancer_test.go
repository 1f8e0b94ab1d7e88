package enhance

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/vibefinder/vibefinder/internal/domain"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain content untouched",
			in:   "cozy forest exploration, relaxing",
			want: "cozy forest exploration, relaxing",
		},
		{
			name: "quoted label",
			in:   `"Search query: foo"`,
			want: "foo",
		},
		{
			name: "bold label different case",
			in:   "**Search Query:** bar",
			want: "bar",
		},
		{
			name: "bold label no trailing space",
			in:   "**Search Query:**bar",
			want: "bar",
		},
		{
			name: "single quoted label",
			in:   "'Search query: puzzle games, minimalist'",
			want: "puzzle games, minimalist'",
		},
		{
			name: "wrapping double quotes",
			in:   `"ghost games, dark and eerie aesthetic"`,
			want: "ghost games, dark and eerie aesthetic",
		},
		{
			name: "label then quoted value",
			in:   `Search query: "match-three, colorful, casual"`,
			want: "match-three, colorful, casual",
		},
		{
			name: "surrounding whitespace",
			in:   "  Search query: racing games, neon  \n",
			want: "racing games, neon",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		`"Search query: foo"`,
		"**Search Query:** bar",
		"plain text query",
	}
	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Errorf("Clean not idempotent for %q: %q then %q", in, once, twice)
		}
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
	return domain.ChatResult{Content: f.content, TotalTokens: 12}, nil
}

func TestEnhance(t *testing.T) {
	llm := &fakeChatModel{content: `Search query: "ghost games, eerie, horror"`}
	enhancer := NewEnhancer(llm, zap.NewNop())

	got, err := enhancer.Enhance(context.Background(), "games about ghosts")
	if err != nil {
		t.Fatalf("Enhance() error = %v", err)
	}
	if got != "ghost games, eerie, horror" {
		t.Errorf("Enhance() = %q", got)
	}
	if !strings.Contains(llm.prompt, "games about ghosts") {
		t.Error("prompt should embed the user query")
	}
	if !strings.Contains(llm.prompt, "visual style, gameplay mechanics, mood, and theme") {
		t.Error("prompt should carry the extraction instruction")
	}
}

func TestEnhance_ModelError(t *testing.T) {
	modelErr := errors.New("provider down")
	enhancer := NewEnhancer(&fakeChatModel{err: modelErr}, zap.NewNop())

	_, err := enhancer.Enhance(context.Background(), "anything")
	if !errors.Is(err, modelErr) {
		t.Fatalf("Enhance() error = %v, want wrapped model error", err)
	}
}
