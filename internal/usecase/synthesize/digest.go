package synthesize

import (
	"fmt"
	"strings"

	"github.com/vibefinder/vibefinder/internal/domain"
)

const (
	digestCaptionLimit     = 2
	digestDescriptionLimit = 200
)

// renderDigest compacts hits into the numbered block fed to the model:
// store link, score, category, a couple of screenshot captions, and a
// truncated description per game.
func renderDigest(hits []domain.SearchHit) string {
	var b strings.Builder
	for i, hit := range hits {
		fmt.Fprintf(&b, "%d. [%s](%s) (Score: %.2f)\n", i+1, hit.AppName, hit.StoreLink(), hit.SimilarityScore)

		category := hit.AppCategory
		if category == "" {
			category = "Unknown"
		}
		fmt.Fprintf(&b, "   Category: %s\n", category)

		if len(hit.ScreenshotCaptions) > 0 {
			b.WriteString("   Screenshots show:\n")
			captions := hit.ScreenshotCaptions
			if len(captions) > digestCaptionLimit {
				captions = captions[:digestCaptionLimit]
			}
			for _, caption := range captions {
				fmt.Fprintf(&b, "     - %s\n", caption)
			}
		}

		if hit.AppDescription != "" {
			fmt.Fprintf(&b, "   Description: %s...\n\n", truncateRunes(hit.AppDescription, digestDescriptionLimit))
		}
	}
	return b.String()
}

// truncateRunes cuts at a character boundary, never mid-rune.
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
