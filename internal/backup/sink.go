package backup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Sink stores an encoded archive and returns where it went.
type Sink interface {
	Put(ctx context.Context, data []byte) (string, error)
}

// FileSink writes the archive to Path, replacing any existing file.
type FileSink struct {
	Path string
}

func (f FileSink) Put(_ context.Context, data []byte) (string, error) {
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("create backup dir: %w", err)
		}
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return f.Path, nil
}

// S3Config addresses an S3-compatible bucket with static credentials, as
// used with MinIO.
type S3Config struct {
	User         string
	Password     string
	Bucket       string
	Region       string
	BaseEndpoint string
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Sink struct {
	cfg    S3Config
	client objectPutter
	now    func() time.Time
}

func NewS3Sink(ctx context.Context, c S3Config) (*S3Sink, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.User,
			c.Password,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Sink{cfg: c, client: client, now: time.Now}, nil
}

// StorageKey returns a fresh object key under backups/<yyyy>/<mm>/<dd>/.
func StorageKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("backups/%d/%02d/%02d/%v.json", t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *S3Sink) Put(ctx context.Context, data []byte) (string, error) {
	key := StorageKey(s.now())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.cfg.Bucket, key, err)
	}
	return "s3://" + s.cfg.Bucket + "/" + key, nil
}

// Export builds an archive and hands it to sink.
func Export(ctx context.Context, e *Exporter, sink Sink) (string, *Archive, error) {
	a, err := e.Build(ctx)
	if err != nil {
		return "", nil, err
	}
	data, err := a.Marshal()
	if err != nil {
		return "", nil, fmt.Errorf("encode archive: %w", err)
	}
	loc, err := sink.Put(ctx, data)
	if err != nil {
		return "", nil, err
	}
	return loc, a, nil
}
