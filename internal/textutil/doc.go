// Package textutil provides text processing utilities for title scoring and
// filename sanitization.
//
// The primary use cases are:
//   - Scoring candidate titles against a target title on a 0-100 scale
//   - Normalizing titles (diacritics, punctuation, "&") before comparison
//   - Reducing raw release names to searchable game titles
//   - Sanitizing filenames and path segments for safe filesystem use
//
// Scoring uses term-frequency cosine similarity over normalized tokens, with a
// character-overlap fallback for titles too short to tokenize.
package textutil
