package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/utils"
)

const maxBatchSize = 25

type BatchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// SentimentStore persists one row per (comment, analyzer) classification.
type SentimentStore struct {
	client  BatchWriter
	table   string
	ttl     time.Duration
	backoff time.Duration
	now     func() time.Time
}

func NewSentimentStore(client BatchWriter, table string, ttl time.Duration) *SentimentStore {
	return &SentimentStore{
		client:  client,
		table:   table,
		ttl:     ttl,
		backoff: 500 * time.Millisecond,
		now:     time.Now,
	}
}

func (s *SentimentStore) StoreRows(ctx context.Context, rows []models.CommentSentimentRow) error {
	now := s.now()
	createdAt := now.Unix()
	expiresAt := now.Add(s.ttl).Unix()

	for _, batch := range utils.Chunk(rows, maxBatchSize) {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		writeRequests := make([]types.WriteRequest, 0, len(batch))
		for _, row := range batch {
			row.CreatedAt = createdAt
			row.TTL = expiresAt
			item, err := attributevalue.MarshalMap(row)
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to marshal row: %w", err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := s.writeBatch(ctx, writeRequests); err != nil {
			return err
		}
	}

	slog.Info("[DynamoDB] Successfully stored comment sentiments",
		slog.Int("rows", len(rows)))
	return nil
}

func (s *SentimentStore) writeBatch(ctx context.Context, writeRequests []types.WriteRequest) error {
	out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			s.table: writeRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write comment sentiments: %w", err)
	}

	retryCount := 0
	backoff := s.backoff
	for len(out.UnprocessedItems) > 0 && retryCount < 3 {
		time.Sleep(backoff)
		backoff *= 2

		slog.Warn("[DynamoDB] Retrying unprocessed items...",
			slog.Int("attempt", retryCount+1),
			slog.Int("remaining", len(out.UnprocessedItems[s.table])))

		out, err = s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error: %w", err)
		}
		retryCount++
	}

	if remaining := len(out.UnprocessedItems[s.table]); remaining > 0 {
		return fmt.Errorf("[DynamoDB] %d items were not written after retries", remaining)
	}
	return nil
}
