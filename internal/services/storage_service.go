// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/javajoker/agrimarket-backend/internal/config"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFileName = errors.New("invalid file name")
)

// StoredFile is an open handle on a stored image.
type StoredFile struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

type StoredFileInfo struct {
	Name    string
	ModTime time.Time
}

// FileStore keeps uploaded images under flat, already sanitized names.
// Saving an existing name overwrites it.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) error
	Open(ctx context.Context, name string) (*StoredFile, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]StoredFileInfo, error)
	URL(name string) string
}

func NewFileStore(cfg *config.Config) (FileStore, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendLocal:
		return NewLocalFileStore(cfg.Storage.UploadDir, cfg.Server.PublicBaseURL)
	case config.StorageBackendS3:
		return NewS3FileStore(cfg.AWS)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}

func checkFileName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return ErrInvalidFileName
	}
	return nil
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

type LocalFileStore struct {
	dir     string
	baseURL string
}

// NewLocalFileStore creates dir if it does not exist.
func NewLocalFileStore(dir, baseURL string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalFileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalFileStore) path(name string) (string, error) {
	if err := checkFileName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

func (s *LocalFileStore) Save(_ context.Context, name string, r io.Reader, _ string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return f.Close()
}

func (s *LocalFileStore) Open(_ context.Context, name string) (*StoredFile, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, ErrFileNotFound
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrFileNotFound
	}

	return &StoredFile{Body: f, Size: info.Size(), ContentType: contentTypeFor(name)}, nil
}

func (s *LocalFileStore) Delete(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

func (s *LocalFileStore) List(_ context.Context) ([]StoredFileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list upload directory: %w", err)
	}

	files := make([]StoredFileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, StoredFileInfo{Name: entry.Name(), ModTime: info.ModTime()})
	}
	return files, nil
}

func (s *LocalFileStore) URL(name string) string {
	return fmt.Sprintf("%s/uploads/%s", s.baseURL, url.PathEscape(name))
}

const s3ProductFolder = "products/"

type S3FileStore struct {
	client        s3iface.S3API
	bucket        string
	region        string
	cloudFrontURL string
}

func NewS3FileStore(cfg config.AWSConfig) (*S3FileStore, error) {
	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	// Create AWS session
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewS3FileStoreWithClient(s3.New(sess), cfg), nil
}

func NewS3FileStoreWithClient(client s3iface.S3API, cfg config.AWSConfig) *S3FileStore {
	return &S3FileStore{
		client:        client,
		bucket:        cfg.S3Bucket,
		region:        cfg.Region,
		cloudFrontURL: strings.TrimRight(cfg.CloudFrontURL, "/"),
	}
}

func (s *S3FileStore) key(name string) string {
	return s3ProductFolder + name
}

func (s *S3FileStore) Save(ctx context.Context, name string, r io.Reader, contentType string) error {
	if err := checkFileName(name); err != nil {
		return err
	}

	fileBytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if contentType == "" {
		contentType = contentTypeFor(name)
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(name)),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *S3FileStore) Open(ctx context.Context, name string) (*StoredFile, error) {
	if err := checkFileName(name); err != nil {
		return nil, ErrFileNotFound
	}

	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to fetch from S3: %w", err)
	}

	contentType := aws.StringValue(out.ContentType)
	if contentType == "" {
		contentType = contentTypeFor(name)
	}
	return &StoredFile{Body: out.Body, Size: aws.Int64Value(out.ContentLength), ContentType: contentType}, nil
}

func (s *S3FileStore) Delete(ctx context.Context, name string) error {
	if err := checkFileName(name); err != nil {
		return err
	}

	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *S3FileStore) List(ctx context.Context) ([]StoredFileInfo, error) {
	var files []StoredFileInfo
	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s3ProductFolder),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.StringValue(obj.Key), s3ProductFolder)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			files = append(files, StoredFileInfo{Name: name, ModTime: aws.TimeValue(obj.LastModified)})
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list S3 objects: %w", err)
	}
	return files, nil
}

func (s *S3FileStore) URL(name string) string {
	key := s3ProductFolder + url.PathEscape(name)
	if s.cloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.cloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}
