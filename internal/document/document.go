// Package document loads documents and segments them into paragraphs and
// sentences for anchor resolution and structural moves.
package document

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"
)

// Document holds loaded document text with derived metadata.
type Document struct {
	Path string
	Hash string // "sha256:<hex>"
	Raw  string
}

// Load reads a document file from disk and computes its content hash.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return &Document{Path: path, Hash: Hash(string(data)), Raw: string(data)}, nil
}

// Hash returns the canonical "sha256:<hex>" content hash used across the
// engine for determinism verification.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("sha256:%x", sum)
}

// Paragraphs splits text into blocks separated by blank lines. Separators
// are not included; Join reverses the split when the text uses uniform
// double-newline separators.
func Paragraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(normalized, "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, p)
	}
	return out
}

// Join reassembles paragraphs produced by Paragraphs.
func Join(paragraphs []string) string {
	return strings.Join(paragraphs, "\n\n")
}

// SentenceStart returns the byte offset of the start of the sentence
// containing pos: the first non-space byte after the previous terminator
// (. ! ?) or paragraph break, or 0 when pos is in the first sentence.
func SentenceStart(text string, pos int) int {
	if pos > len(text) {
		pos = len(text)
	}
	start := 0
	for i := 0; i < pos; i++ {
		switch text[i] {
		case '.', '!', '?':
			j := i + 1
			for j < pos && (text[j] == ' ' || text[j] == '\t' || text[j] == '\n') {
				j++
			}
			if j <= pos {
				start = j
			}
		case '\n':
			if i+1 < pos && text[i+1] == '\n' {
				j := i + 2
				for j < pos && (text[j] == ' ' || text[j] == '\n') {
					j++
				}
				if j <= pos {
					start = j
				}
			}
		}
	}
	return start
}
