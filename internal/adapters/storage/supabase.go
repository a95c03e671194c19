// Package storage implements the document store adapter: a REST client
// for a Supabase-style object store holding paysheet PDFs in a single
// flat bucket. Objects are publicly retrievable at a URL that is fully
// determined by the store base URL, the bucket name and the stored name.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"loanbridge/internal/core/domain"

	"github.com/hashicorp/go-retryablehttp"
)

const contentType = "application/pdf"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)

// Config holds object store connection settings
type Config struct {
	BaseURL     string // e.g. https://<project>.supabase.co
	Bucket      string
	ServiceKey  string
	DownloadDir string
	RetryMax    int
}

// Client is the document store adapter
type Client struct {
	http        *retryablehttp.Client
	baseURL     string
	bucket      string
	serviceKey  string
	downloadDir string
}

// UploadResult is returned on a successful upload
type UploadResult struct {
	URL        string
	StoredName string
}

// ObjectInfo describes an object in the bucket
type ObjectInfo struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClient creates a document store client
func NewClient(cfg Config) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = cfg.RetryMax
	httpClient.Logger = nil

	return &Client{
		http:        httpClient,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		bucket:      cfg.Bucket,
		serviceKey:  cfg.ServiceKey,
		downloadDir: cfg.DownloadDir,
	}
}

// objectURL is the authenticated object endpoint for a stored name
func (c *Client) objectURL(storedName string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, storedName)
}

// PublicURL returns the public locator for a stored name. The URL is
// deterministic: it can always be reconstructed from the stored name.
func (c *Client) PublicURL(storedName string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, storedName)
}

// StoredName builds the collision-resistant object name for an upload:
// a millisecond timestamp prefix plus the original name reduced to
// alphanumerics and dots.
func StoredName(originalName string) string {
	sanitized := unsafeNameChars.ReplaceAllString(originalName, "_")
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitized)
}

// Upload stores a document and returns its public URL and stored name.
// An existing object under the same name is never overwritten: the
// store rejects the request and the upload fails.
func (c *Client) Upload(ctx context.Context, content []byte, originalName string) (*UploadResult, error) {
	storedName := StoredName(originalName)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(storedName), bytes.NewReader(content))
	if err != nil {
		return nil, &domain.StoreError{Backend: "object-store", Op: "upload", Message: err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "3600")
	req.Header.Set("x-upsert", "false")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.StoreError{Backend: "object-store", Op: "upload", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return nil, &domain.StoreError{
			Backend: "object-store", Op: "upload", Status: resp.StatusCode,
			Message: "object already exists: " + storedName, Err: domain.ErrObjectExists,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, storeError("upload", resp)
	}

	return &UploadResult{
		URL:        c.PublicURL(storedName),
		StoredName: storedName,
	}, nil
}

// Download fetches the object at url into the local download directory
// under destName and returns the local path. Any non-success status is
// surfaced in the error.
func (c *Client) Download(ctx context.Context, url, destName string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &domain.StoreError{Backend: "object-store", Op: "download", Message: err.Error(), Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &domain.StoreError{Backend: "object-store", Op: "download", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &domain.StoreError{
			Backend: "object-store", Op: "download", Status: resp.StatusCode,
			Message: fmt.Sprintf("download failed with status: %d", resp.StatusCode),
		}
	}

	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		return "", err
	}
	localPath := filepath.Join(c.downloadDir, filepath.Base(destName))
	out, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", err
	}
	return localPath, nil
}

// Delete removes the object with the given stored name. A missing
// object is reported as domain.ErrObjectNotFound, never swallowed.
func (c *Client) Delete(ctx context.Context, storedName string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodDelete, c.objectURL(storedName), nil)
	if err != nil {
		return &domain.StoreError{Backend: "object-store", Op: "delete", Message: err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.StoreError{Backend: "object-store", Op: "delete", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &domain.StoreError{
			Backend: "object-store", Op: "delete", Status: resp.StatusCode,
			Message: "object not found: " + storedName, Err: domain.ErrObjectNotFound,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return storeError("delete", resp)
	}
	return nil
}

// DeleteByURL removes the object behind a public URL. Records created
// before stored names were persisted only carry the URL, so the stored
// name is recovered as the final path segment (query string stripped).
func (c *Client) DeleteByURL(ctx context.Context, url string) error {
	return c.Delete(ctx, ExtractStoredName(url))
}

// ExtractStoredName recovers the stored name from a public URL
func ExtractStoredName(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}

// Exists checks whether an object with the stored name is in the bucket
func (c *Client) Exists(ctx context.Context, storedName string) (bool, error) {
	objects, err := c.list(ctx, storedName)
	if err != nil {
		return false, err
	}
	for _, obj := range objects {
		if obj.Name == storedName {
			return true, nil
		}
	}
	return false, nil
}

// List returns every object in the bucket
func (c *Client) List(ctx context.Context) ([]ObjectInfo, error) {
	return c.list(ctx, "")
}

func (c *Client) list(ctx context.Context, search string) ([]ObjectInfo, error) {
	body, err := json.Marshal(map[string]string{
		"prefix": "",
		"search": search,
	})
	if err != nil {
		return nil, err
	}

	listURL := fmt.Sprintf("%s/storage/v1/object/list/%s", c.baseURL, c.bucket)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, listURL, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.StoreError{Backend: "object-store", Op: "list", Message: err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.StoreError{Backend: "object-store", Op: "list", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, storeError("list", resp)
	}

	var objects []ObjectInfo
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		return nil, &domain.StoreError{Backend: "object-store", Op: "list", Message: err.Error(), Err: err}
	}
	return objects, nil
}

// storeError normalizes a non-success response into a StoreError,
// keeping the backend's own message when one is present.
func storeError(op string, resp *http.Response) *domain.StoreError {
	message := resp.Status
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(raw) > 0 {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			if payload.Message != "" {
				message = payload.Message
			} else if payload.Error != "" {
				message = payload.Error
			}
		}
	}
	return &domain.StoreError{Backend: "object-store", Op: op, Status: resp.StatusCode, Message: message}
}
