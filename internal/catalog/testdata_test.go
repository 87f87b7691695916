// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

// twoCategoryDoc has one fully described entry and one bare entry.
const twoCategoryDoc = `# Awesome Apps

- [Stray](https://github.com/owner/stray) - listed before any category

## Contents

### 🎨 Graphics (3)

- [Painter](https://github.com/owner/repoA) - A paint program
  - **Languages:** <img src='icons/y.svg' title='LangY'> <img src="icons/x.svg" title="LangX">
  - **Website:** [painter.io](https://painter.io)
  - <img src='https://img.shields.io/github/stars/owner/repoA?style=flat'> <img src='https://img.shields.io/github/last-commit/owner/repoA'> <img src='https://img.shields.io/badge/license/MIT'>
  <details><summary>Screenshots</summary>
  <img src='https://example.com/a.png'>
  <img src="https://example.com/b.png"> <img src='https://example.com/a.png'>
  </details>

### Utilities (1)

- [Tool](https://github.com/owner/repoB)
`

// checklistDoc nests a feature checklist inside an entry.
const checklistDoc = `### Tools (2)

- [Matrix](https://github.com/owner/matrix) - Feature matrix
  <details><summary>Features</summary>
- [ ] [Sync](https://example.com/sync)
- [x] Offline mode
  * [X] Export
  </details>
- [Next](https://github.com/owner/next) — Second entry
`
