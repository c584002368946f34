// Package checkpoint persists a generation's blueprints between runs,
// LZF-compressed the way the teacher's RDB loader decompresses
// string values (app/diyredis/rdb.go), repurposed here from snapshotting
// a key/value store to snapshotting a population of layouts.
package checkpoint

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	lzf "github.com/zhuyie/golzf"

	"github.com/ravicious/collage/internal/engine"
)

// Snapshot is one generation's worth of blueprints plus the generation
// index they were produced at.
type Snapshot struct {
	Generation int                `json:"generation"`
	Blueprints []engine.Blueprint `json:"blueprints"`
}

// Encode LZF-compresses a snapshot for storage. The wire format is a
// 4-byte little-endian uncompressed length, followed by the LZF-
// compressed JSON payload — mirroring the length-prefixing the teacher
// uses throughout the RDB format.
func Encode(snap Snapshot) ([]byte, error) {
	plain, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: marshaling snapshot: %w", err)
	}

	compressed := make([]byte, len(plain)+64) // headroom: LZF can briefly expand incompressible input
	n, err := lzf.Compress(plain, compressed)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: compressing snapshot: %w", err)
	}

	out := make([]byte, 4+n)
	binary.LittleEndian.PutUint32(out[:4], uint32(len(plain)))
	copy(out[4:], compressed[:n])
	return out, nil
}

// Decode reverses Encode.
func Decode(data []byte) (Snapshot, error) {
	if len(data) < 4 {
		return Snapshot{}, fmt.Errorf("checkpoint: data too short to contain a length prefix")
	}
	plainLen := binary.LittleEndian.Uint32(data[:4])

	plain := make([]byte, plainLen)
	n, err := lzf.Decompress(data[4:], plain)
	if err != nil {
		return Snapshot{}, fmt.Errorf("checkpoint: decompressing snapshot: %w", err)
	}
	if uint32(n) != plainLen {
		return Snapshot{}, fmt.Errorf("checkpoint: decompressed to %d bytes, expected %d", n, plainLen)
	}

	var snap Snapshot
	if err := json.Unmarshal(plain, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("checkpoint: unmarshaling snapshot: %w", err)
	}
	return snap, nil
}
