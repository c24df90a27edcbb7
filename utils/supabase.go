package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// MaxPhotoSize is the largest mentor photo accepted, in bytes.
const MaxPhotoSize = 5 << 20

var ErrUnsupportedPhoto = errors.New("photo must be a jpeg, png or webp image up to 5 MB")

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// PhotoStore keeps mentor photos and returns their public URL.
type PhotoStore interface {
	UploadPhoto(ctx context.Context, userID uuid.UUID, fileHeader *multipart.FileHeader) (string, error)
	DeletePhoto(ctx context.Context, publicURL string) error
}

// SupabaseStorage stores photos in a Supabase Storage bucket.
type SupabaseStorage struct {
	client  *storage.Client
	baseURL string
	bucket  string
}

// NewSupabaseStorage returns nil when the project URL or key is missing.
func NewSupabaseStorage(supabaseURL, serviceKey, bucket string) *SupabaseStorage {
	supabaseURL = strings.TrimRight(supabaseURL, "/")
	if supabaseURL == "" || serviceKey == "" {
		return nil
	}
	return &SupabaseStorage{
		client:  storage.NewClient(supabaseURL+"/storage/v1", serviceKey, nil),
		baseURL: supabaseURL,
		bucket:  bucket,
	}
}

// UploadPhoto stores the image under mentors/<userID>/<random>.<ext>.
func (s *SupabaseStorage) UploadPhoto(ctx context.Context, userID uuid.UUID, fileHeader *multipart.FileHeader) (string, error) {
	contentType := fileHeader.Header.Get("Content-Type")
	ext, ok := photoExtensions[contentType]
	if !ok || fileHeader.Size > MaxPhotoSize {
		return "", ErrUnsupportedPhoto
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, MaxPhotoSize+1)); err != nil {
		return "", err
	}
	if buf.Len() > MaxPhotoSize {
		return "", ErrUnsupportedPhoto
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	objectPath := fmt.Sprintf("mentors/%s/%s%s", userID, uuid.NewString(), ext)
	upsert := true
	_, err = s.client.UploadFile(s.bucket, objectPath, &buf, storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	return s.PublicURL(objectPath), nil
}

// PublicURL returns the public object URL of a path in the bucket.
func (s *SupabaseStorage) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
}

// DeletePhoto removes an object previously returned by UploadPhoto. URLs
// outside the bucket are ignored.
func (s *SupabaseStorage) DeletePhoto(ctx context.Context, publicURL string) error {
	objectPath, ok := s.objectPath(publicURL)
	if !ok {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.client.RemoveFile(s.bucket, []string{objectPath}); err != nil {
		return fmt.Errorf("delete photo %s: %w", objectPath, err)
	}
	return nil
}

func (s *SupabaseStorage) objectPath(publicURL string) (string, bool) {
	prefix := s.baseURL + "/storage/v1/object/public/" + s.bucket + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	rest := publicURL[len(prefix):]
	if i := strings.IndexByte(rest, '?'); i != -1 {
		rest = rest[:i]
	}
	if u, err := url.PathUnescape(rest); err == nil {
		rest = u
	}
	if rest == "" || filepath.Clean(rest) != rest {
		return "", false
	}
	return rest, true
}
