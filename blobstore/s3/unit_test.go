package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGetAPI serves ranged GETs from an in-memory byte slice.
type fakeGetAPI struct {
	data []byte
}

func (f *fakeGetAPI) GetObject(_ context.Context, params *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	off, end, err := parseRange(aws.ToString(params.Range))
	if err != nil {
		return nil, err
	}
	if end < off {
		// S3 rejects inverted ranges like bytes=3-2.
		return nil, fmt.Errorf("invalid range %q", aws.ToString(params.Range))
	}
	if end >= int64(len(f.data)) {
		end = int64(len(f.data)) - 1
	}
	return &awss3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(f.data[off : end+1])),
	}, nil
}

// parseRange parses a "bytes=<off>-<end>" header.
func parseRange(header string) (off, end int64, err error) {
	rest := strings.TrimPrefix(header, "bytes=")
	lo, hi, _ := strings.Cut(rest, "-")
	if off, err = strconv.ParseInt(lo, 10, 64); err != nil {
		return 0, 0, err
	}
	if end, err = strconv.ParseInt(hi, 10, 64); err != nil {
		return 0, 0, err
	}
	return off, end, nil
}

func TestS3BlobReadAt(t *testing.T) {
	ctx := context.Background()
	payload := []byte("0123456789")
	blob := &s3Blob{
		client: &fakeGetAPI{data: payload},
		bucket: "b",
		key:    "k",
		size:   int64(len(payload)),
	}

	t.Run("Middle", func(t *testing.T) {
		p := make([]byte, 4)
		n, err := blob.ReadAt(ctx, p, 3)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, []byte("3456"), p)
	})

	t.Run("Tail", func(t *testing.T) {
		p := make([]byte, 4)
		n, err := blob.ReadAt(ctx, p, 8)
		assert.Equal(t, 2, n)
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, []byte("89"), p[:n])
	})

	t.Run("PastEnd", func(t *testing.T) {
		p := make([]byte, 4)
		_, err := blob.ReadAt(ctx, p, 100)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("Empty", func(t *testing.T) {
		n, err := blob.ReadAt(ctx, nil, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

// fakeDDB is an in-memory commit table. When stale is set, Query reports an
// older version than the table holds, simulating a racing writer.
type fakeDDB struct {
	items map[uint64]string
	stale uint64
}

func (f *fakeDDB) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	versionAttr := params.Item["version"].(*ddbtypes.AttributeValueMemberN).Value
	version, err := strconv.ParseUint(versionAttr, 10, 64)
	if err != nil {
		return nil, err
	}
	if _, exists := f.items[version]; exists {
		return nil, &ddbtypes.ConditionalCheckFailedException{}
	}
	if f.items == nil {
		f.items = make(map[uint64]string)
	}
	f.items[version] = params.Item["snapshot"].(*ddbtypes.AttributeValueMemberS).Value
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDDB) Query(_ context.Context, _ *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	var latest uint64
	for v := range f.items {
		if v > latest {
			latest = v
		}
	}
	if f.stale != 0 {
		latest = f.stale
	}
	if latest == 0 {
		return &dynamodb.QueryOutput{}, nil
	}
	return &dynamodb.QueryOutput{
		Items: []map[string]ddbtypes.AttributeValue{{
			"run":      &ddbtypes.AttributeValueMemberS{Value: "run-1"},
			"version":  &ddbtypes.AttributeValueMemberN{Value: strconv.FormatUint(latest, 10)},
			"snapshot": &ddbtypes.AttributeValueMemberS{Value: f.items[latest]},
		}},
	}, nil
}

func TestCommitIndex(t *testing.T) {
	ctx := context.Background()
	ddb := &fakeDDB{}
	idx := NewCommitIndex(ddb, "coilprox-commits", "run-1")

	name, version, err := idx.Current(ctx)
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.EqualValues(t, 0, version)

	v1, err := idx.Publish(ctx, "snap-001")
	require.NoError(t, err)
	assert.EqualValues(t, 1, v1)

	name, version, err = idx.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snap-001", name)
	assert.EqualValues(t, 1, version)

	v2, err := idx.Publish(ctx, "snap-002")
	require.NoError(t, err)
	assert.EqualValues(t, 2, v2)
}

func TestCommitIndexConcurrentCommit(t *testing.T) {
	ctx := context.Background()
	ddb := &fakeDDB{
		items: map[uint64]string{1: "snap-001", 2: "snap-raced"},
		stale: 1, // Query sees version 1, so Publish targets the taken slot 2
	}
	idx := NewCommitIndex(ddb, "coilprox-commits", "run-1")

	_, err := idx.Publish(ctx, "snap-mine")
	assert.ErrorIs(t, err, ErrConcurrentCommit)
}
