// Package textlayout breaks strings into lines that fit a pixel budget.
package textlayout

import (
	"iter"
	"strings"
)

// MeasureFunc returns the rendered width of text in pixels
type MeasureFunc func(text string) int

// Line is a single wrapped line and its measured width
type Line struct {
	Text  string
	Width int
}

// Wrap greedily packs the words of text into lines no wider than width.
// A word that is wider than width on its own is emitted alone rather than split.
// The returned sequence is lazy and can be ranged over more than once.
func Wrap(text string, width int, measure MeasureFunc) iter.Seq2[string, int] {
	words := strings.Fields(text)
	return func(yield func(string, int) bool) {
		rest := words
		for len(rest) > 0 {
			n, w := fit(rest, width, measure)
			if !yield(strings.Join(rest[:n], " "), w) {
				return
			}
			rest = rest[n:]
		}
	}
}

// Lines collects Wrap into a slice
func Lines(text string, width int, measure MeasureFunc) []Line {
	var out []Line
	for text, w := range Wrap(text, width, measure) {
		out = append(out, Line{Text: text, Width: w})
	}
	return out
}

// fit returns the largest prefix word count that fits width, at least 1.
// Prefix widths grow with the word count, so a binary search keeps the
// number of measure calls logarithmic per line.
func fit(words []string, width int, measure MeasureFunc) (int, int) {
	best, bestWidth := 1, -1
	lo, hi := 1, len(words)
	for lo <= hi {
		mid := (lo + hi) / 2
		w := measure(strings.Join(words[:mid], " "))
		if w <= width {
			best, bestWidth = mid, w
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if bestWidth < 0 {
		bestWidth = measure(words[0])
	}
	return best, bestWidth
}
