// services/snapshots.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/playvault/reward-engine/rewardengine/economy/staking"
)

const maxConcurrentUploads = 8

// SnapshotService exports the full staking state to object storage so the
// books survive outside the process and reporting jobs can read them without
// touching the engine.
type SnapshotService struct {
	client *s3.Client
	bucket string
	region string
	Root   string
	ledger *staking.Ledger
}

func NewSnapshotService(spacesKey, spacesSecret, region, bucket, root string, ledger *staking.Ledger) *SnapshotService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	return &SnapshotService{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
		Root:   strings.TrimPrefix(root, "/"),
		ledger: ledger,
	}
}

// ExportBooks uploads one JSON object per user book plus a summary object.
// Uploads run concurrently with a bounded worker count.
func (s *SnapshotService) ExportBooks(ctx context.Context) error {
	books := s.ledger.Books()
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	prefix := fmt.Sprintf("%s/%s", s.Root, stamp)

	sem := semaphore.NewWeighted(maxConcurrentUploads)
	g, ctx := errgroup.WithContext(ctx)

	for _, book := range books {
		book := book
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		g.Go(func() error {
			defer sem.Release(1)
			key := fmt.Sprintf("%s/books/%s.json", prefix, book.UserID)
			return s.putJSON(ctx, key, book)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to export staking books: %w", err)
	}

	summary := struct {
		ExportedAt time.Time             `json:"exported_at"`
		BookCount  int                   `json:"book_count"`
		Stats      staking.ProtocolStats `json:"stats"`
	}{
		ExportedAt: time.Now().UTC(),
		BookCount:  len(books),
		Stats:      s.ledger.ProtocolStats(),
	}
	if err := s.putJSON(ctx, prefix+"/summary.json", summary); err != nil {
		return fmt.Errorf("failed to export snapshot summary: %w", err)
	}

	slog.Info("Staking snapshot exported",
		slog.String("type", "sys"),
		slog.String("prefix", prefix),
		slog.Int("books", len(books)))
	return nil
}

func (s *SnapshotService) putJSON(ctx context.Context, key string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	contentType := "application/json"
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// StartExportRoutine exports on the given interval until the context ends.
func (s *SnapshotService) StartExportRoutine(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.ExportBooks(ctx); err != nil {
					slog.Error("Snapshot export failed",
						slog.String("error", err.Error()))
				}
			}
		}
	}()
}

func (s *SnapshotService) GetBucket() string {
	return s.bucket
}

func (s *SnapshotService) GetRegion() string {
	return s.region
}
