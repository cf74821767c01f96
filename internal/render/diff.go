package render

import "github.com/sergi/go-diff/diffmatchpatch"

// diffRows reports, for each row index in next, whether it changed versus
// prior (the dirty-row bitmap). A row is unchanged only if byte-identical
// to its prior plain-text rendering.
func diffRows(prior []string, next []renderedRow) []bool {
	changed := make([]bool, len(next))
	for i, r := range next {
		if i >= len(prior) {
			changed[i] = true
			continue
		}
		changed[i] = prior[i] != r.plain
	}
	return changed
}

// commonChangedSpan runs a Myers diff between a row's prior and new
// plain-text content and returns the column range that actually needs
// repainting: everything outside the first and last non-equal diff
// fragment is unchanged and can be left alone. This is what lets a row
// that merely shifted (e.g. a scrolled log line re-wrapped at a new
// column) repaint only the run that changed instead of the whole row.
// When prior is empty (e.g. a newly visible row) the span is the whole of
// next, with ok true if next is non-empty. ok is false when no fragment
// differs, meaning there is no narrower span to report.
func commonChangedSpan(prior, next string) (start, end int, ok bool) {
	if prior == "" {
		return 0, len([]rune(next)), next != ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(prior, next, false)

	pos := 0
	start, end = -1, -1
	for _, d := range diffs {
		size := len([]rune(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos += size
		case diffmatchpatch.DiffInsert:
			if start == -1 {
				start = pos
			}
			pos += size
			end = pos
		case diffmatchpatch.DiffDelete:
			if start == -1 {
				start = pos
			}
			if pos > end {
				end = pos
			}
		}
	}
	if start == -1 {
		return 0, 0, false
	}
	return start, end, true
}
