package summarizer

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"records-atlas/internal/utils/text"
)

const (
	defaultCharLimit = 400
	minCharLimit     = 100
	maxCharLimit     = 2000

	// maxInputChars caps the prose sent to the API.
	maxInputChars = 10000

	apiTimeout = 60 * time.Second
)

// ValidateCharacterLimit checks that an overview character limit is
// within the accepted range.
func ValidateCharacterLimit(limit int) error {
	if limit < minCharLimit || limit > maxCharLimit {
		return fmt.Errorf("character limit %d outside range [%d, %d]", limit, minCharLimit, maxCharLimit)
	}
	return nil
}

// charLimitFromEnv reads OVERVIEW_CHAR_LIMIT, falling back to the
// default with a warning on invalid values.
func charLimitFromEnv() int {
	envLimit := os.Getenv("OVERVIEW_CHAR_LIMIT")
	if envLimit == "" {
		return defaultCharLimit
	}
	parsed, err := strconv.Atoi(envLimit)
	if err != nil {
		slog.Warn("Invalid OVERVIEW_CHAR_LIMIT format, using default",
			slog.String("value", envLimit),
			slog.Int("default", defaultCharLimit),
			slog.String("error", err.Error()))
		return defaultCharLimit
	}
	if err := ValidateCharacterLimit(parsed); err != nil {
		slog.Warn("OVERVIEW_CHAR_LIMIT out of valid range, using default",
			slog.Int("value", parsed),
			slog.Int("default", defaultCharLimit))
		return defaultCharLimit
	}
	return parsed
}

// buildPrompt constructs the overview prompt. The model is asked to
// condense a jurisdiction page's guidance prose into a short factual
// overview of where public records can be found there.
func buildPrompt(charLimit int, prose string) string {
	return fmt.Sprintf(
		"The following notes describe where public records, official gazettes, and company registry "+
			"data can be found for one jurisdiction. Write a factual overview of at most %d characters "+
			"summarizing what is available and whether access is free, paid, or requires registration. "+
			"Do not invent sources that are not mentioned.\n\n%s",
		charLimit, prose)
}

// truncateInput caps prose length before it is sent to an API.
func truncateInput(prose string) string {
	return text.TruncateRunes(prose, maxInputChars, "...")
}
