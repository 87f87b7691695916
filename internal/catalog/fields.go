// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"regexp"
	"strings"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

// Field patterns. Badge references stop at the first character that cannot
// belong to a URL path segment.
var (
	// titleRe matches title='X' or title="X" attributes.
	titleRe = regexp.MustCompile(`title=(?:'([^']*)'|"([^"]*)")`)

	// websiteRe matches a "Website:" label followed by a markdown link,
	// with or without bold markers around the label.
	websiteRe = regexp.MustCompile(`Website:(?:\*\*)?\s*\[[^\]]*\]\(\s*([^)\s]+)`)

	starsRe      = regexp.MustCompile(`/stars/([^/?#\s'"<>)]+/[^/?#\s'"<>)]+)`)
	lastCommitRe = regexp.MustCompile(`/last-commit/([^/?#\s'"<>)]+/[^/?#\s'"<>)]+)`)
	licenseRe    = regexp.MustCompile(`/license/([^/?#\s'"<>)]+)`)

	// imgRe matches <img ... src='X'> and <img ... src="X">.
	imgRe = regexp.MustCompile(`<img\b[^>]*?\bsrc\s*=\s*(?:'([^']*)'|"([^"]*)")`)

	// screenshotsLabelRe matches a line that introduces a gallery, such as
	// "**Screenshots:**" or "<summary>Screenshots</summary>".
	screenshotsLabelRe = regexp.MustCompile(`(?i)^[\s>*#_-]*(?:<[^>]+>\s*)*(?:\*\*)?screenshots?\b`)

	disclosureOpenRe  = regexp.MustCompile(`(?i)<details\b`)
	disclosureCloseRe = regexp.MustCompile(`(?i)</details\s*>`)
)

const languagesLabel = "Languages:"

// fieldExtractor pulls one field of an App out of a single line.
type fieldExtractor struct {
	name  string
	match func(line string) ([]string, bool)
	set   func(app *types.App, values []string)
}

// fieldExtractors is applied in order to every detail line. Each entry
// overwrites its field when it matches.
var fieldExtractors = []fieldExtractor{
	{
		name:  "languages",
		match: matchLanguages,
		set:   func(app *types.App, v []string) { app.Languages = v },
	},
	{
		name:  "website",
		match: firstGroup(websiteRe),
		set:   func(app *types.App, v []string) { app.Website = v[0] },
	},
	{
		name:  "stars",
		match: firstGroup(starsRe),
		set:   func(app *types.App, v []string) { app.Stars = v[0] },
	},
	{
		name:  "lastCommit",
		match: firstGroup(lastCommitRe),
		set:   func(app *types.App, v []string) { app.LastCommit = v[0] },
	},
	{
		name:  "license",
		match: firstGroup(licenseRe),
		set:   func(app *types.App, v []string) { app.License = v[0] },
	},
}

// matchLanguages returns every quoted title attribute on a line that
// carries the Languages label. A labelled line with no titles yields an
// empty, non-nil slice.
func matchLanguages(line string) ([]string, bool) {
	if !strings.Contains(line, languagesLabel) {
		return nil, false
	}
	langs := []string{}
	for _, m := range titleRe.FindAllStringSubmatch(line, -1) {
		// An empty title names no language.
		if v := quotedValue(m); v != "" {
			langs = append(langs, v)
		}
	}
	return langs, true
}

// firstGroup builds a matcher returning the first capture group of re.
// An empty capture counts as no match.
func firstGroup(re *regexp.Regexp) func(string) ([]string, bool) {
	return func(line string) ([]string, bool) {
		m := re.FindStringSubmatch(line)
		if len(m) < 2 || m[1] == "" {
			return nil, false
		}
		return []string{m[1]}, true
	}
}

// imageRefs returns the src of every <img> tag on the line in order.
func imageRefs(line string) []string {
	var refs []string
	for _, m := range imgRe.FindAllStringSubmatch(line, -1) {
		if v := quotedValue(m); v != "" {
			refs = append(refs, v)
		}
	}
	return refs
}

// quotedValue picks whichever of the single- or double-quoted groups matched.
func quotedValue(m []string) string {
	if len(m) < 3 {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// opensGallery reports whether the line starts a screenshot gallery.
func opensGallery(line string) bool {
	return disclosureOpenRe.MatchString(line) || screenshotsLabelRe.MatchString(line)
}

// closesGallery reports whether the line ends a disclosure block.
func closesGallery(line string) bool {
	return disclosureCloseRe.MatchString(line)
}
