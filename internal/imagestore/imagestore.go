// Package imagestore is the opaque image handle registry spec.md §2
// assumes exists upstream of the engine: callers hand the engine
// `image.Image` values, and a Store lets a host look those values back
// up by the content hash it used to name them.
package imagestore

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"sort"

	radix "github.com/armon/go-radix"
)

// Store indexes decoded images by a hex content-hash key in a radix
// tree, so a host can resolve a hash back to the image it named without
// keeping its own side table, and can iterate images in hash order for
// deterministic debug dumps.
type Store struct {
	tree *radix.Tree
}

// New returns an empty store.
func New() *Store {
	return &Store{tree: radix.New()}
}

// Put hashes data, decodes it, registers the decoded image under the
// hash, and returns the hash. It returns an error if data does not
// decode as an image.
func (s *Store) Put(data []byte) (hash string, img image.Image, err error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("imagestore: decoding image: %w", err)
	}
	hash = contentHash(data)
	s.tree.Insert(hash, decoded)
	return hash, decoded, nil
}

// Get looks up a previously registered image by its content hash.
func (s *Store) Get(hash string) (image.Image, bool) {
	v, ok := s.tree.Get(hash)
	if !ok {
		return nil, false
	}
	return v.(image.Image), true
}

// Len returns the number of registered images.
func (s *Store) Len() int {
	return s.tree.Len()
}

// Hashes returns every registered hash in sorted order, for the CLI's
// -list-images debug dump and for deterministic test assertions.
func (s *Store) Hashes() []string {
	hashes := make([]string, 0, s.tree.Len())
	s.tree.Walk(func(k string, _ interface{}) bool {
		hashes = append(hashes, k)
		return false
	})
	sort.Strings(hashes)
	return hashes
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
