package games

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"strconv"

	"github.com/vibefinder/vibefinder/internal/domain"
)

// Payload field names stored on a game point. similarity_score is attached
// only on the response path and never written.
const (
	fieldAppID       = "app_id"
	fieldAppName     = "app_name"
	fieldCategory    = "app_category"
	fieldDescription = "app_description"
	fieldRating      = "rating"
	fieldCaptions    = "screenshot_captions"
	fieldIcon        = "app_icon"
	fieldPageLink    = "app_page_link"
	fieldVector      = "vector"
)

// payloadFields is the RETURN list for searches: the full payload plus the
// computed distance, without the raw vector blob.
var payloadFields = []string{
	fieldAppID, fieldAppName, fieldCategory, fieldDescription,
	fieldRating, fieldCaptions, fieldIcon, fieldPageLink,
	"__vector_score",
}

// buildHashFields converts a GameRecord plus its embedding into a flat
// map[string]string for HSET.
func buildHashFields(rec domain.GameRecord, vector []float32) map[string]string {
	m := map[string]string{
		fieldAppID:       rec.AppID,
		fieldAppName:     rec.AppName,
		fieldCategory:    rec.AppCategory,
		fieldDescription: rec.TruncatedDescription(),
		fieldVector:      vectorToBytes(vector),
	}
	if rec.Rating != 0 {
		m[fieldRating] = strconv.FormatFloat(rec.Rating, 'f', -1, 64)
	}
	if len(rec.ScreenshotCaptions) > 0 {
		if data, err := json.Marshal(rec.ScreenshotCaptions); err == nil {
			m[fieldCaptions] = string(data)
		}
	}
	if rec.AppIcon != "" {
		m[fieldIcon] = rec.AppIcon
	}
	if rec.AppPageLink != "" {
		m[fieldPageLink] = rec.AppPageLink
	}
	return m
}

// parseHit converts a flat payload map back into a SearchHit.
func parseHit(fields map[string]string, score float64) domain.SearchHit {
	return domain.SearchHit{GameRecord: parseRecord(fields), SimilarityScore: score}
}

// parseRecord rebuilds a GameRecord from its stored hash fields.
func parseRecord(fields map[string]string) domain.GameRecord {
	rec := domain.GameRecord{
		AppID:          fields[fieldAppID],
		AppName:        fields[fieldAppName],
		AppCategory:    fields[fieldCategory],
		AppDescription: fields[fieldDescription],
		AppIcon:        fields[fieldIcon],
		AppPageLink:    fields[fieldPageLink],
	}
	if v, err := strconv.ParseFloat(fields[fieldRating], 64); err == nil {
		rec.Rating = v
	}
	if raw := fields[fieldCaptions]; raw != "" {
		var captions []string
		if json.Unmarshal([]byte(raw), &captions) == nil {
			rec.ScreenshotCaptions = captions
		}
	}
	return rec
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
