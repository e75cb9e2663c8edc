package storage

import (
	"context"
	"fmt"
	"io"

	storage_go "github.com/supabase-community/storage-go"
)

type SupabaseStore struct {
	client *storage_go.Client
	bucket string
}

func NewSupabaseStore(url, key, bucket string) *SupabaseStore {
	return &SupabaseStore{
		client: storage_go.NewClient(url+"/storage/v1", key, nil),
		bucket: bucket,
	}
}

func (s *SupabaseStore) Name() string { return "supabase" }

// Put uploads to Supabase Storage and returns the public URL.
func (s *SupabaseStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.UploadFile(s.bucket, key, r, storage_go.FileOptions{ContentType: &contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := s.client.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}

func (s *SupabaseStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrObjectNotFound, key, err)
	}
	return data, nil
}

// Delete removes file from Supabase Storage
func (s *SupabaseStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{key})
	return err
}

func (s *SupabaseStore) Health(ctx context.Context) error {
	if _, err := s.client.ListFiles(s.bucket, "", storage_go.FileSearchOptions{Limit: 1}); err != nil {
		return fmt.Errorf("supabase bucket %s: %w", s.bucket, err)
	}
	return nil
}
