package flat

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
	"os"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

const (
	magic         = "SQAF"
	formatVersion = 1
	headerSize    = 16
	trailerSize   = 4
)

// MarshalBinary encodes the index into the persisted blob format.
func (i *Index) MarshalBinary() ([]byte, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make([]byte, 0, headerSize+4*len(i.data)+trailerSize)
	out = append(out, magic...)
	out = binary.LittleEndian.AppendUint32(out, formatVersion)
	out = binary.LittleEndian.AppendUint32(out, uint32(i.dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(i.n))
	for _, v := range i.data {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(out)), nil
}

// UnmarshalBinary replaces the index contents with a decoded blob.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize+trailerSize {
		return fmt.Errorf("flat: blob of %d bytes too short: %w", len(data), domain.ErrArtifactCorrupt)
	}
	if string(data[:4]) != magic {
		return fmt.Errorf("flat: bad magic %q: %w", data[:4], domain.ErrArtifactCorrupt)
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != formatVersion {
		return fmt.Errorf("flat: unsupported format version %d: %w", v, domain.ErrArtifactCorrupt)
	}

	body := data[:len(data)-trailerSize]
	want := binary.LittleEndian.Uint32(data[len(data)-trailerSize:])
	if got := crc32.ChecksumIEEE(body); got != want {
		return fmt.Errorf("flat: checksum mismatch: %w", domain.ErrArtifactCorrupt)
	}

	dim := int(binary.LittleEndian.Uint32(data[8:12]))
	n := int(binary.LittleEndian.Uint32(data[12:16]))
	payload := body[headerSize:]
	if uint64(len(payload)) != 4*uint64(dim)*uint64(n) {
		return fmt.Errorf("flat: %d rows of %d dims need %d bytes, have %d: %w",
			n, dim, 4*dim*n, len(payload), domain.ErrArtifactCorrupt)
	}
	if n > 0 && dim == 0 {
		return fmt.Errorf("flat: %d rows without a dimension: %w", n, domain.ErrArtifactCorrupt)
	}

	vals := make([]float32, dim*n)
	for j := range vals {
		vals[j] = math.Float32frombits(binary.LittleEndian.Uint32(payload[4*j:]))
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.dim, i.n, i.data = dim, n, vals
	if n == 0 {
		i.dim = 0
	}
	return nil
}

// WriteFile persists the index to path.
func (i *Index) WriteFile(path string) error {
	blob, err := i.MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, blob, 0600); err != nil {
		return fmt.Errorf("flat: write %s: %w", path, err)
	}
	return nil
}

// ReadFile loads an index persisted by WriteFile.
func ReadFile(path string) (*Index, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flat: read %s: %w", path, err)
	}
	idx := New()
	if err := idx.UnmarshalBinary(blob); err != nil {
		return nil, err
	}
	return idx, nil
}
