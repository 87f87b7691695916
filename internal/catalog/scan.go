// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

var (
	// categoryRe matches category headings like "### 🎨 Graphics (12)".
	categoryRe = regexp.MustCompile(`^###\s+(.+?)\s+\((\d+)\)`)

	// glyphRe matches decorative symbols at the start of a category name.
	glyphRe = regexp.MustCompile(`^[^\p{L}\p{N}_\s]+\s*`)

	// entryRe matches "- [Name](url) - description". The separator and
	// description are optional.
	entryRe = regexp.MustCompile(`^-\s+\[(.+?)\]\((.+?)\)(?:\s+(?:[-–—:]\s*)?(.*?))?\s*$`)

	// checklistRe matches a bullet immediately followed by a checkbox,
	// such as "- [ ] item" or "  * [x] item". A bracket followed by "(" is
	// a link named "x", not a checkbox.
	checklistRe = regexp.MustCompile(`^\s*[-*+]\s+\[[ xX]\](?:$|[^(])`)
)

// lineKind classifies a line for the scanner's transition function.
type lineKind int

const (
	lineOther lineKind = iota
	lineCategory
	lineEntry
	lineChecklist
)

// classify assigns a lineKind. Checklist items are recognized before entry
// headers so that "- [ ] [Name](url)" never opens a new record.
func classify(line string) lineKind {
	if _, ok := parseCategoryHeader(line); ok {
		return lineCategory
	}
	if checklistRe.MatchString(line) {
		return lineChecklist
	}
	if entryRe.MatchString(line) {
		return lineEntry
	}
	return lineOther
}

// scanState is the scanner's position in the document.
type scanState int

const (
	stateSeeking scanState = iota
	stateInCategory
	stateInEntryDetail
)

func (s scanState) String() string {
	switch s {
	case stateSeeking:
		return "SEEKING"
	case stateInCategory:
		return "IN_CATEGORY"
	case stateInEntryDetail:
		return "IN_ENTRY_DETAIL"
	default:
		return "UNKNOWN"
	}
}

// transition returns the state after a line of kind k is read in state s.
// Category headers win from any state. Entry headers are ignored until a
// category is open.
func transition(s scanState, k lineKind) scanState {
	switch k {
	case lineCategory:
		return stateInCategory
	case lineEntry:
		if s == stateSeeking {
			return stateSeeking
		}
		return stateInEntryDetail
	default:
		return s
	}
}

// entryHeader holds the fields captured from an entry header line.
type entryHeader struct {
	name        string
	url         string
	description string
}

func parseEntryHeader(line string) (entryHeader, bool) {
	m := entryRe.FindStringSubmatch(line)
	if m == nil {
		return entryHeader{}, false
	}
	return entryHeader{
		name:        strings.TrimSpace(m[1]),
		url:         strings.TrimSpace(m[2]),
		description: strings.TrimSpace(m[3]),
	}, true
}

func parseCategoryHeader(line string) (types.Category, bool) {
	m := categoryRe.FindStringSubmatch(line)
	if m == nil {
		return types.Category{}, false
	}
	// The pattern only admits digits, so the one failure is overflow.
	count, err := strconv.Atoi(m[2])
	if err != nil {
		count = math.MaxInt
	}
	name := strings.TrimSpace(glyphRe.ReplaceAllString(m[1], ""))
	return types.Category{Name: name, DeclaredCount: count}, true
}

// scan walks the document once and returns the categories and apps in
// document order. Apps carry no ID yet; see finalize.
func scan(lines []string) ([]types.Category, []types.App) {
	var (
		state      = stateSeeking
		current    string
		categories []types.Category
		apps       []types.App
	)

	for i := 0; i < len(lines); {
		line := lines[i]
		kind := classify(line)
		state = transition(state, kind)

		switch {
		case kind == lineCategory:
			cat, _ := parseCategoryHeader(line)
			categories = append(categories, cat)
			current = cat.Name
			i++

		case state == stateInEntryDetail:
			header, _ := parseEntryHeader(line)
			b, next := parseDetails(lines, i+1, newRecordBuilder(header, current))
			apps = append(apps, b.build())
			state = stateInCategory
			i = next

		default:
			i++
		}
	}

	return categories, apps
}
