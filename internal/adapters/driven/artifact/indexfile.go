package artifact

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driven/vectorindex/flat"
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
)

// index.bin wraps the flat index blob with the id of the build that wrote it:
//
//	magic "SQAX" | version u32 | id length u32 | id bytes | flat blob
const (
	indexMagic      = "SQAX"
	indexVersion    = 1
	indexHeaderSize = 12
	maxBuildIDLen   = 256
)

func encodeIndex(buildID string, index driven.VectorIndex) ([]byte, error) {
	if len(buildID) > maxBuildIDLen {
		return nil, fmt.Errorf("build id of %d bytes: %w", len(buildID), domain.ErrInvalidInput)
	}
	blob, err := index.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encoding vector index: %w", err)
	}

	out := make([]byte, 0, indexHeaderSize+len(buildID)+len(blob))
	out = append(out, indexMagic...)
	out = binary.LittleEndian.AppendUint32(out, indexVersion)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(buildID)))
	out = append(out, buildID...)
	return append(out, blob...), nil
}

func decodeIndex(data []byte) (string, *flat.Index, error) {
	if len(data) < indexHeaderSize {
		return "", nil, fmt.Errorf("index file of %d bytes too short: %w", len(data), domain.ErrArtifactCorrupt)
	}
	if string(data[:4]) != indexMagic {
		return "", nil, fmt.Errorf("index file has bad magic %q: %w", data[:4], domain.ErrArtifactCorrupt)
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != indexVersion {
		return "", nil, fmt.Errorf("index file version %d unsupported: %w", v, domain.ErrArtifactCorrupt)
	}
	n := binary.LittleEndian.Uint32(data[8:12])
	if n > maxBuildIDLen || int(n) > len(data)-indexHeaderSize {
		return "", nil, fmt.Errorf("index file build id length %d: %w", n, domain.ErrArtifactCorrupt)
	}
	buildID := string(data[indexHeaderSize : indexHeaderSize+int(n)])

	index := flat.New()
	if err := index.UnmarshalBinary(data[indexHeaderSize+int(n):]); err != nil {
		return "", nil, err
	}
	return buildID, index, nil
}

func writeIndexFile(path, buildID string, index driven.VectorIndex) error {
	blob, err := encodeIndex(buildID, index)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, blob, 0600); err != nil {
		return fmt.Errorf("writing vector index: %w", err)
	}
	return nil
}

func readIndexFile(path string) (string, *flat.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading vector index: %w", err)
	}
	return decodeIndex(data)
}
