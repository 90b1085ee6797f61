package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Writer сохраняет кадры камер и их детекции в S3-совместимое хранилище.
// Это «приёмник скачивания» для Snapshot-операции сессии.
type Writer struct {
	client *minio.Client
	bucket string
}

func NewWriter(endpoint, accessKey, secretKey, bucket string) (*Writer, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &Writer{client: client, bucket: bucket}, nil
}

// SaveSnapshot кладёт кадр под <camera>/<timestamp>.jpg и, если есть
// детекции, JSON с ними рядом под тем же именем
func (w *Writer) SaveSnapshot(ctx context.Context, camera string, image []byte, detections []models.Detection) error {
	stamp := time.Now().UTC().Format("20060102T150405")
	objectPath := fmt.Sprintf("%s/%s.jpg", camera, stamp)

	_, err := w.client.PutObject(
		ctx,
		w.bucket,
		objectPath,
		bytes.NewReader(image),
		int64(len(image)),
		minio.PutObjectOptions{ContentType: "image/jpeg"},
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot to S3: %w", err)
	}

	if len(detections) == 0 {
		return nil
	}

	jsonData, err := json.Marshal(detections)
	if err != nil {
		return fmt.Errorf("failed to marshal detections: %w", err)
	}

	_, err = w.client.PutObject(
		ctx,
		w.bucket,
		fmt.Sprintf("%s/%s.json", camera, stamp),
		bytes.NewReader(jsonData),
		int64(len(jsonData)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("failed to save detections to S3: %w", err)
	}

	return nil
}
