// Package archive reads and writes portable session archives: one
// session's metadata and full branch tree, zstd-compressed behind a
// small framed header with an integrity digest.
package archive

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"

	"github.com/grove-cli/grove/internal/branch"
	"github.com/grove-cli/grove/internal/session"
)

// Archive frame constants.
var magicGRVA = []byte{'G', 'R', 'V', 'A'}

const frameVersion uint32 = 1

// Envelope is the payload of an archive: everything needed to
// reconstruct a session elsewhere.
type Envelope struct {
	Session session.Session  `json:"session"`
	Tree    branch.TreeState `json:"tree"`
}

// Write serializes the envelope to w.
//
// Frame layout:
//
//	4 bytes  magic "GRVA"
//	4 bytes  version (big endian)
//	32 bytes BLAKE3-256 of the uncompressed payload
//	rest     zstd-compressed JSON payload
func Write(w io.Writer, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode archive payload: %w", err)
	}
	sum := blake3.Sum256(payload)

	if _, err := w.Write(magicGRVA); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, frameVersion); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if _, err := w.Write(sum[:]); err != nil {
		return fmt.Errorf("write digest: %w", err)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("init zstd writer: %w", err)
	}
	if _, err := zw.Write(payload); err != nil {
		zw.Close()
		return fmt.Errorf("compress payload: %w", err)
	}
	return zw.Close()
}

// Read parses an archive from r, verifying the frame and the payload
// digest.
func Read(r io.Reader) (Envelope, error) {
	var env Envelope

	header := make([]byte, 4+4+32)
	if _, err := io.ReadFull(r, header); err != nil {
		return env, fmt.Errorf("read archive header: %w", err)
	}
	if !bytes.Equal(header[:4], magicGRVA) {
		return env, fmt.Errorf("not a grove archive (bad magic)")
	}
	version := binary.BigEndian.Uint32(header[4:8])
	if version != frameVersion {
		return env, fmt.Errorf("unsupported archive version %d", version)
	}
	var want [32]byte
	copy(want[:], header[8:])

	zr, err := zstd.NewReader(r)
	if err != nil {
		return env, fmt.Errorf("init zstd reader: %w", err)
	}
	defer zr.Close()

	payload, err := io.ReadAll(zr)
	if err != nil {
		return env, fmt.Errorf("decompress payload: %w", err)
	}
	if blake3.Sum256(payload) != want {
		return env, fmt.Errorf("archive payload digest mismatch")
	}

	if err := json.Unmarshal(payload, &env); err != nil {
		return env, fmt.Errorf("decode archive payload: %w", err)
	}
	return env, nil
}
