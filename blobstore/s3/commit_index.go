package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrConcurrentCommit is returned when another worker published a snapshot
// for the same run between Current and Publish.
var ErrConcurrentCommit = errors.New("concurrent snapshot commit detected")

// DDBClient is the interface for the DynamoDB operations CommitIndex uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// CommitIndex tracks the current coil-set snapshot for an optimization run
// in a DynamoDB table. S3 has no compare-and-swap, so the "which snapshot
// is current" pointer lives here: each publish writes a new monotonically
// increasing version with a conditional put, and concurrent writers lose
// cleanly instead of overwriting each other.
//
// Table schema:
//   - Partition key: run (string) - the run identifier
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name coilprox-commits \
//	  --attribute-definitions AttributeName=run,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=run,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type CommitIndex struct {
	client DDBClient
	table  string
	run    string
}

// NewCommitIndex creates a commit index for the given run identifier.
func NewCommitIndex(client DDBClient, table, run string) *CommitIndex {
	return &CommitIndex{
		client: client,
		table:  table,
		run:    run,
	}
}

// Current returns the snapshot name and version of the latest commit.
// Version 0 with an empty name means nothing has been published yet.
func (x *CommitIndex) Current(ctx context.Context) (string, uint64, error) {
	resp, err := x.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(x.table),
		KeyConditionExpression: aws.String("#r = :run"),
		ExpressionAttributeNames: map[string]string{
			"#r": "run",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":run": &types.AttributeValueMemberS{Value: x.run},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return "", 0, fmt.Errorf("query commit index: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", 0, nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return "", 0, fmt.Errorf("commit item missing numeric version attribute")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("parse commit version %q: %w", versionAttr.Value, err)
	}

	snapshotAttr, ok := item["snapshot"].(*types.AttributeValueMemberS)
	if !ok {
		return "", 0, fmt.Errorf("commit item missing snapshot attribute")
	}
	return snapshotAttr.Value, version, nil
}

// Publish records snapshotName as the next version of the run. The version
// row is created with a conditional put, so if another worker committed the
// same version first, Publish returns ErrConcurrentCommit and the caller
// can re-read Current and retry.
func (x *CommitIndex) Publish(ctx context.Context, snapshotName string) (uint64, error) {
	_, current, err := x.Current(ctx)
	if err != nil {
		return 0, err
	}
	next := current + 1

	_, err = x.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(x.table),
		Item: map[string]types.AttributeValue{
			"run":      &types.AttributeValueMemberS{Value: x.run},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(next, 10)},
			"snapshot": &types.AttributeValueMemberS{Value: snapshotName},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return 0, ErrConcurrentCommit
		}
		return 0, fmt.Errorf("put commit item: %w", err)
	}

	return next, nil
}
