package supabase

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	storage "github.com/supabase-community/storage-go"
)

// Signed URLs stay valid for one year; clients are expected to tolerate
// eventual expiry and re-request.
const signedURLTTLSeconds = 365 * 24 * 60 * 60

// ErrUnknownURLFormat is returned when a file URL does not match any storage
// URL shape this client produces.
var ErrUnknownURLFormat = errors.New("unrecognized storage url format")

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// ObjectKey derives the storage key for an upload:
// {projectID}/{millis}-{sanitized filename}. The timestamp prefix keeps
// repeated uploads of the same filename from colliding.
func ObjectKey(projectID, filename string, now time.Time) string {
	clean := unsafeKeyChars.ReplaceAllString(filename, "_")
	return fmt.Sprintf("%s/%d-%s", projectID, now.UnixMilli(), clean)
}

// Upload stores the bytes under a project-scoped key and returns a signed
// access URL. It performs no size validation; empty files are filtered at
// the API boundary.
func (s *StorageClient) Upload(projectID, filename string, data []byte) (string, error) {
	key := ObjectKey(projectID, filename, time.Now())

	contentType := http.DetectContentType(data)
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	signed, err := s.client.CreateSignedUrl(s.bucket, key, signedURLTTLSeconds)
	if err != nil {
		return "", fmt.Errorf("failed to sign file url: %w", err)
	}

	return signed.SignedURL, nil
}

// FileUpload is one item of a batch upload.
type FileUpload struct {
	Filename string
	Data     []byte
}

// UploadResult reports the outcome of one item of a batch upload.
type UploadResult struct {
	Filename string
	URL      string
	Err      error
}

// UploadMany uploads all files concurrently and reports one result per file.
// Files stored before a failing sibling are not rolled back.
func (s *StorageClient) UploadMany(projectID string, files []FileUpload) []UploadResult {
	results := make([]UploadResult, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f FileUpload) {
			defer wg.Done()
			url, err := s.Upload(projectID, f.Filename, f.Data)
			results[i] = UploadResult{Filename: f.Filename, URL: url, Err: err}
		}(i, f)
	}
	wg.Wait()

	return results
}

// ExtractObjectKey recovers the storage key from a signed or public access
// URL. Any other shape is rejected rather than guessed at.
func (s *StorageClient) ExtractObjectKey(fileURL string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("invalid file url: %w", err)
	}

	// Signed: /storage/v1/object/sign/{bucket}/{key}?token=...
	// Public: /storage/v1/object/public/{bucket}/{key}
	for _, marker := range []string{"/object/sign/", "/object/public/"} {
		idx := strings.Index(parsed.Path, marker)
		if idx == -1 {
			continue
		}
		rest := parsed.Path[idx+len(marker):]
		if key, ok := strings.CutPrefix(rest, s.bucket+"/"); ok && key != "" {
			return key, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownURLFormat, parsed.Path)
}

// Delete removes the object a previously issued access URL points at.
func (s *StorageClient) Delete(fileURL string) error {
	key, err := s.ExtractObjectKey(fileURL)
	if err != nil {
		return err
	}

	if _, err := s.client.RemoveFile(s.bucket, []string{key}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// DeleteResult reports the outcome of one item of a batch delete.
type DeleteResult struct {
	URL string
	Err error
}

// DeleteMany removes all objects concurrently and reports one result per URL.
func (s *StorageClient) DeleteMany(fileURLs []string) []DeleteResult {
	results := make([]DeleteResult, len(fileURLs))

	var wg sync.WaitGroup
	for i, fileURL := range fileURLs {
		wg.Add(1)
		go func(i int, fileURL string) {
			defer wg.Done()
			results[i] = DeleteResult{URL: fileURL, Err: s.Delete(fileURL)}
		}(i, fileURL)
	}
	wg.Wait()

	return results
}
