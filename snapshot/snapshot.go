package snapshot

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/coilprox/blobstore"
	"github.com/hupe1980/coilprox/codec"
	"github.com/hupe1980/coilprox/geometry"
	"github.com/hupe1980/coilprox/resource"
)

// magic identifies coil-set snapshot blobs. The trailing digit is the
// format version.
var magic = [8]byte{'C', 'X', 'S', 'N', 'A', 'P', '0', '1'}

// ErrBadMagic is returned when a blob is not a coil-set snapshot.
var ErrBadMagic = errors.New("snapshot: bad magic")

// manifest describes the payload. It is encoded with the codec named in
// the header, never with the current default.
type manifest struct {
	Codec       string `json:"codec"`
	Compression string `json:"compression"`
	PointCounts []int  `json:"point_counts"`
}

type options struct {
	codec       codec.Codec
	compression Compression
	controller  *resource.Controller
}

// Option configures snapshot writes.
type Option func(*options)

// WithCodec selects the manifest codec. Nil selects codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression selects the payload compression by name
// ("none", "lz4", "zstd"). Unknown names fail the write.
func WithCompression(name string) Option {
	return func(o *options) {
		if c, ok := CompressionByName(name); ok {
			o.compression = c
		} else {
			o.compression = nil
		}
	}
}

// WithController applies archive concurrency and IO limits to the write.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// Write encodes the clouds into a self-describing snapshot blob and stores
// it under name.
func Write(ctx context.Context, store blobstore.BlobStore, name string, clouds []geometry.PointCloud, opts ...Option) error {
	o := options{
		codec:       codec.Default,
		compression: DefaultCompression,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.compression == nil {
		return fmt.Errorf("snapshot: unknown compression")
	}

	m := manifest{
		Codec:       o.codec.Name(),
		Compression: o.compression.Name(),
		PointCounts: make([]int, len(clouds)),
	}
	payloadLen := 0
	for i, cloud := range clouds {
		m.PointCounts[i] = len(cloud)
		payloadLen += 24 * len(cloud)
	}

	raw := make([]byte, 0, payloadLen)
	for _, cloud := range clouds {
		for _, p := range cloud {
			for _, v := range p {
				raw = binary.LittleEndian.AppendUint64(raw, math.Float64bits(v))
			}
		}
	}

	payload, err := o.compression.Compress(raw)
	if err != nil {
		return fmt.Errorf("snapshot: compress payload: %w", err)
	}

	manifestBytes, err := o.codec.Marshal(m)
	if err != nil {
		return fmt.Errorf("snapshot: encode manifest: %w", err)
	}

	blob := make([]byte, 0, len(magic)+2+len(m.Codec)+len(m.Compression)+4+len(manifestBytes)+len(payload))
	blob = append(blob, magic[:]...)
	blob = appendString(blob, m.Codec)
	blob = appendString(blob, m.Compression)
	blob = binary.LittleEndian.AppendUint32(blob, uint32(len(manifestBytes)))
	blob = append(blob, manifestBytes...)
	blob = append(blob, payload...)

	if o.controller != nil {
		if err := o.controller.AcquireJob(ctx); err != nil {
			return err
		}
		defer o.controller.ReleaseJob()
		if err := o.controller.WaitIO(ctx, len(blob)); err != nil {
			return err
		}
	}

	if err := store.Put(ctx, name, blob); err != nil {
		return fmt.Errorf("snapshot: store %q: %w", name, err)
	}
	return nil
}

// Read loads a snapshot blob and decodes its clouds.
func Read(ctx context.Context, store blobstore.BlobStore, name string) ([]geometry.PointCloud, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()

	data, err := blobstore.ReadAll(ctx, b)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses snapshot bytes. Exposed separately so callers holding raw
// bytes (e.g. from a commit-index fetch) can skip the store round trip.
func Decode(data []byte) ([]geometry.PointCloud, error) {
	if len(data) < len(magic) || [8]byte(data[:8]) != magic {
		return nil, ErrBadMagic
	}
	rest := data[len(magic):]

	codecName, rest, err := readString(rest)
	if err != nil {
		return nil, err
	}
	compName, rest, err := readString(rest)
	if err != nil {
		return nil, err
	}

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("snapshot: unknown codec %q", codecName)
	}
	comp, ok := CompressionByName(compName)
	if !ok {
		return nil, fmt.Errorf("snapshot: unknown compression %q", compName)
	}

	if len(rest) < 4 {
		return nil, fmt.Errorf("snapshot: truncated manifest header")
	}
	manifestLen := binary.LittleEndian.Uint32(rest)
	rest = rest[4:]
	if uint32(len(rest)) < manifestLen {
		return nil, fmt.Errorf("snapshot: truncated manifest")
	}

	var m manifest
	if err := c.Unmarshal(rest[:manifestLen], &m); err != nil {
		return nil, fmt.Errorf("snapshot: decode manifest: %w", err)
	}

	raw, err := comp.Decompress(rest[manifestLen:])
	if err != nil {
		return nil, fmt.Errorf("snapshot: decompress payload: %w", err)
	}

	total := 0
	for _, n := range m.PointCounts {
		total += n
	}
	if len(raw) != 24*total {
		return nil, fmt.Errorf("snapshot: payload is %d bytes, manifest expects %d", len(raw), 24*total)
	}

	clouds := make([]geometry.PointCloud, len(m.PointCounts))
	off := 0
	for i, n := range m.PointCounts {
		cloud := make(geometry.PointCloud, n)
		for j := range cloud {
			for axis := 0; axis < 3; axis++ {
				cloud[j][axis] = math.Float64frombits(binary.LittleEndian.Uint64(raw[off:]))
				off += 8
			}
		}
		clouds[i] = cloud
	}
	return clouds, nil
}

func appendString(dst []byte, s string) []byte {
	dst = append(dst, byte(len(s)))
	return append(dst, s...)
}

func readString(data []byte) (string, []byte, error) {
	if len(data) < 1 {
		return "", nil, fmt.Errorf("snapshot: truncated header string")
	}
	n := int(data[0])
	if len(data) < 1+n {
		return "", nil, fmt.Errorf("snapshot: truncated header string")
	}
	return string(data[1 : 1+n]), data[1+n:], nil
}
