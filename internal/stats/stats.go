// Package stats computes document statistics for the writing assistant:
// word, character, sentence, and paragraph counts, estimated reading and
// speaking times, and a readability score.
package stats

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	readingWordsPerMinute  = 225
	speakingWordsPerMinute = 130
)

// Stats is a snapshot of document statistics. It is a pure function of the
// document text and carries no reference back to it.
type Stats struct {
	Words      int
	Characters int
	Sentences  int
	Paragraphs int

	// ReadingTime and SpeakingTime are estimates in minutes.
	ReadingTime  float64
	SpeakingTime float64

	// Readability is a 0-100 score; higher reads easier.
	Readability int
}

// Compute derives Stats from the document text. It never fails; text with no
// words yields the zero Stats rather than feeding the readability formula
// with zero averages.
func Compute(text string) Stats {
	words := len(strings.Fields(text))
	if words == 0 {
		return Stats{}
	}

	s := Stats{
		Words:        words,
		Characters:   utf8.RuneCountInString(text),
		Sentences:    countSentences(text),
		Paragraphs:   countParagraphs(text),
		ReadingTime:  float64(words) / readingWordsPerMinute,
		SpeakingTime: float64(words) / speakingWordsPerMinute,
	}

	var avgSentenceLen float64
	if s.Sentences > 0 {
		avgSentenceLen = float64(s.Words) / float64(s.Sentences)
	}
	avgWordLen := float64(s.Characters) / float64(s.Words)

	score := 100 - 1.5*avgSentenceLen - 5*avgWordLen + 50
	s.Readability = int(math.Round(clamp(score, 0, 100)))
	return s
}

// countSentences counts runs of sentence terminators. Text after the final
// terminator still counts as a sentence if it contains anything printable.
func countSentences(text string) int {
	count := 0
	segStart := 0
	inTerminator := false
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if !inTerminator {
				if strings.TrimSpace(text[segStart:i]) != "" {
					count++
				}
				inTerminator = true
			}
			continue
		}
		if inTerminator {
			inTerminator = false
			segStart = i
		}
	}
	if !inTerminator && strings.TrimSpace(text[segStart:]) != "" {
		count++
	}
	return count
}

// countParagraphs counts blocks separated by blank lines.
func countParagraphs(text string) int {
	count := 0
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
