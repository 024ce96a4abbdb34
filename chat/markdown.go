package chat

import (
	"fmt"
	"regexp"
	"strings"
)

// EnhanceMarkdown reshapes raw model output into markdown the chat widget
// renders cleanly. The model tends to emit pipe tables that render poorly in
// narrow chat bubbles, so table rows become bold label lines and leftover
// table syntax is stripped. Only formatting changes; no content is dropped.
//
// Re-applying the transform to already-clean output is a no-op. Inputs with
// partial or dangling pipe characters may not round-trip exactly; that is a
// known limitation of the pipe stripping, not something the function tries
// to paper over.
func EnhanceMarkdown(text string) string {
	text = convertTableRows(text)
	text = stripDividerRows(text)
	text = reflowBestSuitedFor(text)
	text = stripStrayPipes(text)
	text = fixHeadingSpace(text)
	text = fixListMarkerSpace(text)
	text = ensureBlankBeforeHeading(text)
	text = collapseBlankLines(text)
	return text
}

var tableRowPattern = regexp.MustCompile(`^\s*\|([^|]*)\|([^|]*)\|([^|]*)\|\s*$`)

// convertTableRows turns three-column table rows into "**label**: value -
// _emphasis_" lines. Divider rows (dash runs) are left for stripDividerRows.
func convertTableRows(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := tableRowPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		emphasis := strings.TrimSpace(m[3])
		if label == "" || isDashRun(label) || isDashRun(value) || isDashRun(emphasis) {
			continue
		}
		lines[i] = fmt.Sprintf("**%s**: %s - _%s_", label, value, emphasis)
	}
	return strings.Join(lines, "\n")
}

var dividerRowPattern = regexp.MustCompile(`^[|\s:-]+$`)

// stripDividerRows removes table divider rows and any other line made of
// nothing but table syntax.
func stripDividerRows(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, "|") && strings.Contains(line, "-") && dividerRowPattern.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// reflowBestSuitedFor rewrites leftover table content under a "Best Suited
// For" heading into bullets. Tokens arrive pipe-separated in runs of three
// (label, recommendation, reason); anything short of a full triple is kept
// as a plain bullet so no content is lost.
func reflowBestSuitedFor(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	inSection := false
	var tokens []string

	flush := func() {
		for len(tokens) >= 3 {
			out = append(out, fmt.Sprintf("- **%s**: %s (%s)", tokens[0], tokens[1], tokens[2]))
			tokens = tokens[3:]
		}
		if len(tokens) > 0 {
			out = append(out, "- "+strings.Join(tokens, " "))
			tokens = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if inSection {
			switch {
			case trimmed == "" || strings.HasPrefix(trimmed, "#"):
				flush()
				inSection = false
				out = append(out, line)
			case strings.Contains(trimmed, "|"):
				for _, tok := range strings.Split(trimmed, "|") {
					tok = strings.TrimSpace(tok)
					if tok == "" || isDashRun(tok) {
						continue
					}
					tokens = append(tokens, tok)
				}
			default:
				flush()
				out = append(out, line)
			}
			continue
		}
		out = append(out, line)
		if strings.Contains(strings.ToLower(trimmed), "best suited for") {
			inSection = true
		}
	}
	flush()

	return strings.Join(out, "\n")
}

var strayPipes = regexp.MustCompile(`\|+`)

func stripStrayPipes(text string) string {
	return strayPipes.ReplaceAllString(text, "")
}

var headingNoSpace = regexp.MustCompile(`(?m)^(#{1,6})([^#\s])`)

func fixHeadingSpace(text string) string {
	return headingNoSpace.ReplaceAllString(text, "$1 $2")
}

var listMarkerNoSpace = regexp.MustCompile(`(?m)^([-*+])([^\s\-*+])`)

func fixListMarkerSpace(text string) string {
	return listMarkerNoSpace.ReplaceAllString(text, "$1 $2")
}

var headingAfterText = regexp.MustCompile(`([^\n])\n(#{1,6} )`)

func ensureBlankBeforeHeading(text string) string {
	return headingAfterText.ReplaceAllString(text, "${1}\n\n${2}")
}

var excessBlankLines = regexp.MustCompile(`\n{3,}`)

func collapseBlankLines(text string) string {
	return excessBlankLines.ReplaceAllString(text, "\n\n")
}

// isDashRun reports whether tok is a table divider cell like "---" or
// ":---:".
func isDashRun(tok string) bool {
	stripped := strings.Trim(tok, ": ")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r != '-' {
			return false
		}
	}
	return true
}
