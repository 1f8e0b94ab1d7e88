package domain

import (
	"fmt"
	"strings"
)

// DescriptionPayloadLimit caps the stored description length in a point payload.
const DescriptionPayloadLimit = 1000

// GameRecord is an immutable snapshot of a catalog entry. It is produced by
// the catalog and captioning collaborators and consumed read-only by the
// indexing pipeline. AppID is the stable primary key for upserts.
type GameRecord struct {
	AppID              string   `json:"app_id"`
	AppName            string   `json:"app_name"`
	AppCategory        string   `json:"app_category"`
	AppDescription     string   `json:"app_description"`
	Rating             float64  `json:"rating,omitempty"`
	ScreenshotCaptions []string `json:"screenshot_captions,omitempty"`
	AppIcon            string   `json:"app_icon,omitempty"`
	AppPageLink        string   `json:"app_page_link,omitempty"`
}

// Validate checks the record at the ingestion boundary. Optional fields
// (rating, captions, icon, page link) default to their zero values.
func (g GameRecord) Validate() error {
	if g.AppID == "" {
		return fmt.Errorf("%w: app_id is required", ErrInvalidRecord)
	}
	if g.AppName == "" {
		return fmt.Errorf("%w: app_name is required", ErrInvalidRecord)
	}
	return nil
}

// EmbeddingText builds the text that is vectorized for this record:
// present fields in fixed order (title, category, description), then one
// "Screenshot shows:" fragment per caption.
func (g GameRecord) EmbeddingText() string {
	fields := make([]string, 0, 4)

	if g.AppName != "" {
		fields = append(fields, "Title: "+g.AppName)
	}
	if g.AppCategory != "" {
		fields = append(fields, "Category: "+g.AppCategory)
	}
	if g.AppDescription != "" {
		fields = append(fields, "Description: "+g.AppDescription)
	}
	if len(g.ScreenshotCaptions) > 0 {
		captions := make([]string, len(g.ScreenshotCaptions))
		for i, caption := range g.ScreenshotCaptions {
			captions[i] = "Screenshot shows: " + caption
		}
		fields = append(fields, strings.Join(captions, " "))
	}

	return strings.Join(fields, " ")
}

// TruncatedDescription returns the description capped for payload storage.
// The cap counts runes, not bytes, so multi-byte text is never cut inside a
// character.
func (g GameRecord) TruncatedDescription() string {
	return truncateRunes(g.AppDescription, DescriptionPayloadLimit)
}

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

// StoreLink returns the Google Play page URL derived from the app id.
func (g GameRecord) StoreLink() string {
	return "https://play.google.com/store/apps/details?id=" + g.AppID
}

// SearchHit is a GameRecord's indexed payload plus its similarity score.
// It exists only on the response path and is never persisted.
type SearchHit struct {
	GameRecord
	SimilarityScore float64 `json:"similarity_score"`
}
