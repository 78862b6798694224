package usecase

import (
	"fmt"

	"github.com/maisonvault/backfill/internal/domain"
)

// Default detection thresholds, matching the Mechanic rule this
// pipeline replaced.
const (
	defaultEditorNoteMaxWords  = 50
	defaultLegacyCharThreshold = 1200
	defaultLegacyWordThreshold = 180
	defaultMinSignalPhrases    = 1
)

// DefaultSignalPhrases is the stock-description phrase list inherited
// from the legacy Mechanic rule. Keep entries verbatim: the fused
// entries ("symphonyindulge" etc.) and the "ellegance" misspelling are
// known defects in the source list, and matching is substring-based, so
// cleaning them up would change dispositions on live data.
var DefaultSignalPhrases = []string{
	"timeless",
	"must-have",
	"embodies",
	"symphonyindulge",
	"essence",
	"allure",
	"prestige",
	"epitomizes",
	"elleganceunparalleled",
	"exquisite",
	"craftsmanshipsophisticated",
	"elevate your style",
	"ultimate",
	"expression",
	"embody",
	"aesthetic",
	"refined taste",
	"experience",
	"luxurious",
	"prestigious",
	"status",
}

// ClassifierConfig holds configuration for the legacy-content classifier
type ClassifierConfig struct {
	EditorNoteMaxWords  int
	LegacyCharThreshold int
	LegacyWordThreshold int
	MinSignalPhrases    int
	SignalPhrases       []string
}

// Classifier decides whether a product's existing description should be
// replaced. It holds no state across invocations; Classify is pure.
type Classifier struct {
	editorNoteMaxWords  int
	legacyCharThreshold int
	legacyWordThreshold int
	minSignalPhrases    int
	signalPhrases       []string
}

// NewClassifier creates a classifier with the given configuration,
// falling back to the stock thresholds and phrase list for zero values
func NewClassifier(config ClassifierConfig) *Classifier {
	maxWords := config.EditorNoteMaxWords
	if maxWords <= 0 {
		maxWords = defaultEditorNoteMaxWords
	}

	charThreshold := config.LegacyCharThreshold
	if charThreshold <= 0 {
		charThreshold = defaultLegacyCharThreshold
	}

	wordThreshold := config.LegacyWordThreshold
	if wordThreshold <= 0 {
		wordThreshold = defaultLegacyWordThreshold
	}

	minPhrases := config.MinSignalPhrases
	if minPhrases <= 0 {
		minPhrases = defaultMinSignalPhrases
	}

	phrases := config.SignalPhrases
	if len(phrases) == 0 {
		phrases = DefaultSignalPhrases
	}

	return &Classifier{
		editorNoteMaxWords:  maxWords,
		legacyCharThreshold: charThreshold,
		legacyWordThreshold: wordThreshold,
		minSignalPhrases:    minPhrases,
		signalPhrases:       phrases,
	}
}

// Classify evaluates a product's existing description against its raw
// bag-style attribute value. First matching rule wins:
//
//  1. No bag style -> skip, the product is outside the backfill domain.
//  2. Empty description -> process.
//  3. Short description (word count within the editor-note limit) ->
//     process, preserving the markup verbatim as an editor note.
//  4. Long description with stock phrasing -> process as legacy
//     boilerplate.
//  5. Anything else -> skip, treated as hand-written.
//
// Total over all inputs; never errors and never mutates arguments.
func (c *Classifier) Classify(bagStyleRaw, descriptionHTML string) domain.ClassificationOutcome {
	if bagStyleRaw == "" {
		return domain.ClassificationOutcome{
			ShouldProcess: false,
			Reason:        "SKIPPED: Bag Style is empty (non-Hermès handbag / manual description required)",
		}
	}

	if descriptionHTML == "" {
		return domain.ClassificationOutcome{
			ShouldProcess: true,
			Reason:        "PROCESS: description empty",
		}
	}

	charCount := len(descriptionHTML)
	text := stripHTMLToText(descriptionHTML)
	wc := wordCount(text)

	if wc > 0 && wc <= c.editorNoteMaxWords {
		return domain.ClassificationOutcome{
			ShouldProcess: true,
			EditorNote:    descriptionHTML,
			Reason:        fmt.Sprintf("PROCESS: editor note detected (%d words)", wc),
		}
	}

	phraseCount := countSignalPhrases(descriptionHTML, c.signalPhrases)

	if charCount > c.legacyCharThreshold && wc > c.legacyWordThreshold && phraseCount >= c.minSignalPhrases {
		return domain.ClassificationOutcome{
			ShouldProcess: true,
			Reason:        fmt.Sprintf("PROCESS: legacy AI detected (chars=%d, words=%d, phrases=%d)", charCount, wc, phraseCount),
		}
	}

	return domain.ClassificationOutcome{
		ShouldProcess: false,
		Reason:        fmt.Sprintf("SKIPPED: has description (chars=%d, words=%d, phrases=%d)", charCount, wc, phraseCount),
	}
}
