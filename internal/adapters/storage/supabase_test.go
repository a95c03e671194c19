package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"loanbridge/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory object store speaking the storage REST API
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	created map[string]time.Time

	lastUpsert      string
	lastContentType string
	lastAuth        string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects: make(map[string][]byte),
		created: make(map[string]time.Time),
	}
}

func (f *fakeStore) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/storage/v1/object/list/"):
			var body struct {
				Search string `json:"search"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			var objects []ObjectInfo
			for name := range f.objects {
				if body.Search == "" || strings.Contains(name, body.Search) {
					objects = append(objects, ObjectInfo{Name: name, CreatedAt: f.created[name]})
				}
			}
			json.NewEncoder(w).Encode(objects)

		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/storage/v1/object/"):
			name := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/testbucket/")
			f.lastUpsert = r.Header.Get("x-upsert")
			f.lastContentType = r.Header.Get("Content-Type")
			f.lastAuth = r.Header.Get("Authorization")

			if _, exists := f.objects[name]; exists && f.lastUpsert != "true" {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"message": "The resource already exists"})
				return
			}

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			f.objects[name] = body
			f.created[name] = time.Now()
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/storage/v1/object/public/"):
			name := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/public/testbucket/")
			content, exists := f.objects[name]
			if !exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write(content)

		case r.Method == http.MethodDelete:
			name := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/testbucket/")
			if _, exists := f.objects[name]; !exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			delete(f.objects, name)
			w.WriteHeader(http.StatusOK)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestClient(t *testing.T) (*Client, *fakeStore) {
	store := newFakeStore()
	server := httptest.NewServer(store.handler(t))
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:     server.URL,
		Bucket:      "testbucket",
		ServiceKey:  "test-service-key",
		DownloadDir: t.TempDir(),
		RetryMax:    0,
	})
	return client, store
}

func TestUploadExistsDelete(t *testing.T) {
	client, store := newTestClient(t)
	ctx := context.Background()

	result, err := client.Upload(ctx, []byte("pdf-bytes"), "pay slip.pdf")
	require.NoError(t, err)

	assert.NotEmpty(t, result.StoredName)
	assert.True(t, strings.HasSuffix(result.StoredName, "_pay_slip.pdf"))
	assert.Equal(t, client.PublicURL(result.StoredName), result.URL)

	// Headers the store contract depends on
	assert.Equal(t, "false", store.lastUpsert)
	assert.Equal(t, "application/pdf", store.lastContentType)
	assert.Equal(t, "Bearer test-service-key", store.lastAuth)

	exists, err := client.Exists(ctx, result.StoredName)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, client.Delete(ctx, result.StoredName))

	exists, err = client.Exists(ctx, result.StoredName)
	require.NoError(t, err)
	assert.False(t, exists)
}

// Stored names are timestamped so natural collisions are rare; a server
// that always answers 409 exercises the conflict mapping directly.
func TestUploadConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "The resource already exists"})
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:    server.URL,
		Bucket:     "testbucket",
		ServiceKey: "key",
	})

	_, err := client.Upload(context.Background(), []byte("second"), "doc.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrObjectExists)

	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, http.StatusConflict, storeErr.Status)
}

func TestDeleteMissingObject(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.Delete(context.Background(), "never-uploaded.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)

	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, http.StatusNotFound, storeErr.Status)
}

func TestDownload(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	result, err := client.Upload(ctx, []byte("paysheet content"), "salary.pdf")
	require.NoError(t, err)

	localPath, err := client.Download(ctx, result.URL, result.StoredName)
	require.NoError(t, err)

	content, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, "paysheet content", string(content))
	assert.Equal(t, result.StoredName, filepath.Base(localPath))
}

func TestDownloadMissing(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Download(context.Background(), client.PublicURL("gone.pdf"), "gone.pdf")
	require.Error(t, err)

	var storeErr *domain.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, http.StatusNotFound, storeErr.Status)
	assert.Contains(t, storeErr.Message, "download failed with status")
}

func TestDeleteByURL(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	result, err := client.Upload(ctx, []byte("data"), "old.pdf")
	require.NoError(t, err)

	require.NoError(t, client.DeleteByURL(ctx, result.URL))

	exists, err := client.Exists(ctx, result.StoredName)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExtractStoredName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://x.supabase.co/storage/v1/object/public/paysheets/1700000000000_doc.pdf", "1700000000000_doc.pdf"},
		{"https://x.supabase.co/storage/v1/object/public/paysheets/doc.pdf?token=abc", "doc.pdf"},
		{"https://x.supabase.co/storage/v1/object/public/paysheets/doc.pdf#frag", "doc.pdf"},
		{"doc.pdf", "doc.pdf"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractStoredName(tt.url))
	}
}

func TestStoredNameSanitization(t *testing.T) {
	name := StoredName("my pay sheet (final).pdf")

	parts := strings.SplitN(name, "_", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "my_pay_sheet__final_.pdf", parts[1])
	assert.Regexp(t, `^\d+$`, parts[0])
}
