package snapshot

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression compresses and decompresses snapshot payload blocks.
type Compression interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

// CompressionByName returns a built-in compression by its stable name.
func CompressionByName(name string) (Compression, bool) {
	switch name {
	case "none":
		return None{}, true
	case "lz4":
		return LZ4{}, true
	case "zstd":
		return Zstd{}, true
	default:
		return nil, false
	}
}

// DefaultCompression is used for newly written snapshots.
var DefaultCompression Compression = Zstd{}

// blockHeaderSize prefixes every compressed block:
// [UncompressedSize uint32][CompressedSize uint32]. CompressedSize == 0
// means the block is stored raw (incompressible input).
const blockHeaderSize = 8

func frame(raw, compressed []byte) []byte {
	// Incompressible payloads are stored raw; float64 coordinates of
	// irregular coils often barely compress.
	if len(compressed) == 0 || len(compressed) >= len(raw) {
		out := make([]byte, blockHeaderSize+len(raw))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(raw)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[blockHeaderSize:], raw)
		return out
	}
	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(raw)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out
}

func unframe(data []byte) (rawSize, compSize uint32, body []byte, err error) {
	if len(data) < blockHeaderSize {
		return 0, 0, nil, fmt.Errorf("payload block too small for header: %d bytes", len(data))
	}
	rawSize = binary.LittleEndian.Uint32(data[0:])
	compSize = binary.LittleEndian.Uint32(data[4:])
	body = data[blockHeaderSize:]
	if compSize != 0 && uint64(compSize) > uint64(len(body)) {
		return 0, 0, nil, fmt.Errorf("payload block header claims %d compressed bytes, only %d present", compSize, len(body))
	}
	return rawSize, compSize, body, nil
}

// None stores payloads uncompressed (still framed, so readers stay uniform).
type None struct{}

func (None) Name() string { return "none" }

func (None) Compress(data []byte) ([]byte, error) {
	return frame(data, nil), nil
}

func (None) Decompress(data []byte) ([]byte, error) {
	rawSize, compSize, body, err := unframe(data)
	if err != nil {
		return nil, err
	}
	if compSize != 0 || uint32(len(body)) != rawSize {
		return nil, fmt.Errorf("corrupt uncompressed block")
	}
	return body, nil
}

// LZ4 uses LZ4 block compression (fast, moderate ratio).
type LZ4 struct{}

func (LZ4) Name() string { return "lz4" }

func (LZ4) Compress(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}
	// n == 0 means incompressible; frame stores it raw.
	return frame(data, buf[:n]), nil
}

func (LZ4) Decompress(data []byte) ([]byte, error) {
	rawSize, compSize, body, err := unframe(data)
	if err != nil {
		return nil, err
	}
	if compSize == 0 {
		if uint32(len(body)) != rawSize {
			return nil, fmt.Errorf("corrupt raw block")
		}
		return body, nil
	}
	out := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(body[:compSize], out)
	if err != nil {
		return nil, err
	}
	if uint32(n) != rawSize {
		return nil, fmt.Errorf("lz4 block decompressed to %d bytes, expected %d", n, rawSize)
	}
	return out, nil
}

// Zstd uses zstd compression (better ratio, good for cold archives).
type Zstd struct{}

func (Zstd) Name() string { return "zstd" }

func (Zstd) Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return frame(data, enc.EncodeAll(data, nil)), nil
}

func (Zstd) Decompress(data []byte) ([]byte, error) {
	rawSize, compSize, body, err := unframe(data)
	if err != nil {
		return nil, err
	}
	if compSize == 0 {
		if uint32(len(body)) != rawSize {
			return nil, fmt.Errorf("corrupt raw block")
		}
		return body, nil
	}
	// Cap decoder allocation at the declared raw size so a corrupt header
	// cannot request an outsized buffer.
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(rawSize)+1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(body[:compSize], make([]byte, 0, rawSize))
	if err != nil {
		return nil, err
	}
	if uint32(len(out)) != rawSize {
		return nil, fmt.Errorf("zstd block decompressed to %d bytes, expected %d", len(out), rawSize)
	}
	return out, nil
}
