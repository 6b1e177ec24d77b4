package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/kspray/internal/storage"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient: &http.Client{
			Transport: &http.Transport{},
		},
	})

	return &Client{s3: client, bucket: "cluster-state"}
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func xmlError(code, message string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>%s</Code>
  <Message>%s</Message>
</Error>`, code, message)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		creds *storage.Credentials
	}{
		{"custom endpoint", &storage.Credentials{AccessKey: "ak", SecretKey: "sk", Bucket: "b", Endpoint: "https://minio.internal:9000", Region: "eu-1"}},
		{"aws defaults", &storage.Credentials{AccessKey: "ak", SecretKey: "sk", Bucket: "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, err := NewClient(context.Background(), tt.creds)
			require.NoError(t, err)
			assert.Equal(t, "b", client.Bucket())
		})
	}
}

func TestNewClient_Nil(t *testing.T) {
	t.Parallel()
	_, err := NewClient(context.Background(), nil)
	assert.Error(t, err)
}

func TestBucketExists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
		wantErr string
	}{
		{
			name: "exists",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				assert.Equal(t, "/cluster-state", r.URL.Path)
				w.WriteHeader(http.StatusOK)
			},
			want: true,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				xmlResponse(w, http.StatusNotFound, xmlError("NotFound", "Not Found"))
			},
			want: false,
		},
		{
			name: "access denied",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				xmlResponse(w, http.StatusForbidden, xmlError("AccessDenied", "Access Denied"))
			},
			wantErr: "failed to check bucket cluster-state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := testClient(t, tt.handler)

			exists, err := client.BucketExists(context.Background())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestPutObject(t *testing.T) {
	t.Parallel()

	var gotPath, gotType, gotBody string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))

	err := client.PutObject(context.Background(), "prod/hosts.yaml", "application/yaml", []byte("all: {}\n"))

	require.NoError(t, err)
	assert.Equal(t, "/cluster-state/prod/hosts.yaml", gotPath)
	assert.Equal(t, "application/yaml", gotType)
	assert.Equal(t, "all: {}\n", gotBody)
}

func TestPutObject_Error(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusForbidden, xmlError("AccessDenied", "Access Denied"))
	}))

	err := client.PutObject(context.Background(), "prod/hosts.yaml", "", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to put object prod/hosts.yaml in bucket cluster-state")
}

func TestUploadFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hosts := filepath.Join(dir, "hosts.yaml")
	etcd := filepath.Join(dir, "group_vars", "etcd.yml")
	require.NoError(t, os.MkdirAll(filepath.Dir(etcd), 0755))
	require.NoError(t, os.WriteFile(hosts, []byte("all: {}\n"), 0644))
	require.NoError(t, os.WriteFile(etcd, []byte("etcd_deployment_type: host\n"), 0644))

	var mu sync.Mutex
	uploaded := map[string]string{}
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		uploaded[r.URL.Path] = string(body)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))

	keys, err := client.UploadFiles(context.Background(), "prod/inventory", []string{hosts, etcd})

	require.NoError(t, err)
	assert.Equal(t, []string{"prod/inventory/hosts.yaml", "prod/inventory/etcd.yml"}, keys)
	assert.Equal(t, "all: {}\n", uploaded["/cluster-state/prod/inventory/hosts.yaml"])
	assert.Equal(t, "etcd_deployment_type: host\n", uploaded["/cluster-state/prod/inventory/etcd.yml"])
}

func TestUploadFiles_MissingFile(t *testing.T) {
	t.Parallel()
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	keys, err := client.UploadFiles(context.Background(), "p", []string{filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Empty(t, keys)
}

func TestContentTypeFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "application/yaml", contentTypeFor("hosts.yaml"))
	assert.Equal(t, "application/yaml", contentTypeFor("etcd.yml"))
	assert.Equal(t, "application/json", contentTypeFor("hosts.json"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("admin.conf"))
}
