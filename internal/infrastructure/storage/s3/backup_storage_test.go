package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradoxie/niche-dashboard/pkg/config"
)

// fakeS3 принимает PUT и отвечает на ListObjectsV2 фиксированным XML
type fakeS3 struct {
	mu      sync.Mutex
	puts    map[string][]byte
	headers map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.puts[r.URL.Path] = body
		f.headers[r.URL.Path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>backups</Name>
  <Prefix>niche/exports/</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>10</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents>
    <Key>niche/exports/2026/10/16/20261016T120000Z.json</Key>
    <LastModified>2026-10-16T12:00:01.000Z</LastModified>
    <Size>120</Size>
  </Contents>
  <Contents>
    <Key>niche/exports/2026/10/17/20261017T120000Z.json</Key>
    <LastModified>2026-10-17T12:00:01.000Z</LastModified>
    <Size>240</Size>
  </Contents>
</ListBucketResult>`)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStorage(t *testing.T, mode string) (*BackupStorage, *fakeS3, *httptest.Server) {
	t.Helper()
	fake := &fakeS3{puts: map[string][]byte{}, headers: map[string]string{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	storage, err := NewBackupStorage(context.Background(), config.S3Config{
		Bucket:          "backups",
		Region:          "us-east-1",
		Endpoint:        server.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		UsePathStyle:    true,
		URLMode:         mode,
	})
	require.NoError(t, err)
	return storage, fake, server
}

func TestPutObject_PublicURL(t *testing.T) {
	storage, fake, server := newTestStorage(t, "public")

	key := "niche/exports/2026/10/17/20261017T120000Z.json"
	url, err := storage.PutObject(context.Background(), key, "application/json", []byte(`{"version":1}`))
	require.NoError(t, err)

	assert.Equal(t, server.URL+"/backups/"+key, url)
	assert.Contains(t, string(fake.puts["/backups/"+key]), `{"version":1}`)
	assert.Equal(t, "application/json", fake.headers["/backups/"+key])
}

func TestPutObject_PresignedURL(t *testing.T) {
	storage, _, server := newTestStorage(t, "presigned")

	url, err := storage.PutObject(context.Background(), "niche/exports/a.json", "application/json", []byte(`{}`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, server.URL+"/backups/niche/exports/a.json?"))
	assert.Contains(t, url, "X-Amz-Signature=")
}

func TestListObjects_NewestFirst(t *testing.T) {
	storage, _, _ := newTestStorage(t, "public")

	objects, err := storage.ListObjects(context.Background(), "niche/exports/", 10)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "niche/exports/2026/10/17/20261017T120000Z.json", objects[0].Key)
	assert.EqualValues(t, 240, objects[0].Size)
	assert.Contains(t, objects[1].URL, "20261016T120000Z.json")

	_, err = storage.ListObjects(context.Background(), " ", 10)
	assert.Error(t, err)
}

func TestNewBackupStorage_Validation(t *testing.T) {
	_, err := NewBackupStorage(context.Background(), config.S3Config{})
	assert.ErrorContains(t, err, "bucket")

	_, err = NewBackupStorage(context.Background(), config.S3Config{Bucket: "b", URLMode: "cdn"})
	assert.ErrorContains(t, err, "url mode")

	_, err = NewBackupStorage(context.Background(), config.S3Config{Bucket: "b", URLMode: "public"})
	assert.ErrorContains(t, err, "endpoint")
}

func TestPublicURL_VirtualHosted(t *testing.T) {
	storage := &BackupStorage{bucket: "backups", endpoint: "https://storage.example.com"}
	assert.Equal(t, "https://backups.storage.example.com/a%20b/c.json", storage.publicURL("a b/c.json"))
}
