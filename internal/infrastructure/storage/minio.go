package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/agentmeet-team/agentmeet/pkg/config"
)

// TranscriptArchive keeps a durable copy of every transcript document in
// object storage. Provider CDN links expire; the archive does not.
type TranscriptArchive struct {
	client *minio.Client
	bucket string
}

// NewTranscriptArchive creates the archive client and ensures the bucket
// exists
func NewTranscriptArchive(cfg *config.StorageConfig) (*TranscriptArchive, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	archive := &TranscriptArchive{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	if err := archive.ensureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return archive, nil
}

func (a *TranscriptArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// ArchiveTranscript stores the raw transcript document under
// transcripts/<meetingID>.jsonl. Re-archiving the same meeting overwrites,
// so webhook redelivery is harmless.
func (a *TranscriptArchive) ArchiveTranscript(ctx context.Context, meetingID uuid.UUID, data []byte) error {
	objectName := transcriptObjectName(meetingID)

	_, err := a.client.PutObject(ctx, a.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/jsonl"},
	)
	if err != nil {
		return fmt.Errorf("failed to archive transcript for meeting %s: %w", meetingID, err)
	}
	return nil
}

// FetchArchivedTranscript reads an archived transcript back
func (a *TranscriptArchive) FetchArchivedTranscript(ctx context.Context, meetingID uuid.UUID) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, transcriptObjectName(meetingID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archived transcript for meeting %s: %w", meetingID, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived transcript for meeting %s: %w", meetingID, err)
	}
	return data, nil
}

func transcriptObjectName(meetingID uuid.UUID) string {
	return fmt.Sprintf("transcripts/%s.jsonl", meetingID)
}
