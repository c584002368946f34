// Package container sniffs an image container format from its leading
// bytes, the way spec.md §6 expects a host to do before handing pixels
// to the engine. It registers decoders for every format it recognizes.
package container

import (
	"encoding/hex"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dghubble/trie"
)

// Format names a recognized container.
type Format string

const (
	JPEG    Format = "jpeg"
	PNG     Format = "png"
	GIF     Format = "gif"
	Unknown Format = ""
)

// signature is a container's magic-byte prefix.
type signature struct {
	format Format
	bytes  []byte
}

var signatures = []signature{
	{JPEG, []byte{0xFF, 0xD8, 0xFF}},
	{PNG, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{GIF, []byte("GIF89a")},
	{GIF, []byte("GIF87a")},
}

// Sniffer matches magic-byte prefixes against registered container
// signatures. Matching is done over hex-encoded bytes rather than raw
// bytes directly, since signature bytes are not valid UTF-8 runes and
// the underlying trie walks its keys rune by rune.
type Sniffer struct {
	byLength map[int]*trie.RuneTrie
}

// New builds a Sniffer preloaded with the standard JPEG/PNG/GIF
// signatures.
func New() *Sniffer {
	s := &Sniffer{byLength: make(map[int]*trie.RuneTrie)}
	for _, sig := range signatures {
		s.register(sig.format, sig.bytes)
	}
	return s
}

func (s *Sniffer) register(format Format, magic []byte) {
	n := len(magic)
	t, ok := s.byLength[n]
	if !ok {
		t = &trie.RuneTrie{}
		s.byLength[n] = t
	}
	t.Put(hex.EncodeToString(magic), format)
}

// Sniff identifies data's container format by its longest matching
// registered signature, or reports Unknown.
func (s *Sniffer) Sniff(data []byte) Format {
	longest := 0
	for n := range s.byLength {
		if n > longest {
			longest = n
		}
	}

	for n := longest; n >= 1; n-- {
		t, ok := s.byLength[n]
		if !ok || len(data) < n {
			continue
		}
		if v := t.Get(hex.EncodeToString(data[:n])); v != nil {
			return v.(Format)
		}
	}
	return Unknown
}
