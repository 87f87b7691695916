// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import "github.com/pdiddy/catalog-engine/pkg/types"

// recordBuilder accumulates one App while its detail block is scanned.
// It is owned by the scanner and handed to parseDetails by value.
type recordBuilder struct {
	app  types.App
	seen map[string]bool
}

func newRecordBuilder(h entryHeader, category string) recordBuilder {
	return recordBuilder{
		app: types.App{
			Name:        h.name,
			URL:         h.url,
			Description: h.description,
			Category:    category,
			Languages:   []string{},
			Screenshots: []string{},
		},
		seen: make(map[string]bool),
	}
}

func (b *recordBuilder) addScreenshot(src string) {
	if b.seen[src] {
		return
	}
	b.seen[src] = true
	b.app.Screenshots = append(b.app.Screenshots, src)
}

func (b recordBuilder) build() types.App {
	return b.app
}

// parseDetails consumes the detail block that starts at lines[start] and
// returns the updated builder and the index of the first line it did not
// consume. The block ends at a category header or a top-level entry
// header; checklist sub-items are ordinary detail lines.
func parseDetails(lines []string, start int, b recordBuilder) (recordBuilder, int) {
	inGallery := false

	i := start
	for ; i < len(lines); i++ {
		line := lines[i]
		if endsDetailBlock(classify(line)) {
			break
		}

		for _, fx := range fieldExtractors {
			if v, ok := fx.match(line); ok {
				fx.set(&b.app, v)
			}
		}

		if opensGallery(line) {
			inGallery = true
		}
		if inGallery {
			for _, src := range imageRefs(line) {
				b.addScreenshot(src)
			}
		}
		if closesGallery(line) {
			inGallery = false
		}
	}

	return b, i
}

// endsDetailBlock is the single rule deciding where a detail block stops.
func endsDetailBlock(k lineKind) bool {
	return k == lineCategory || k == lineEntry
}
