package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

func newTestS3(t *testing.T) (*S3Service, func() []recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(srv.URL),
		UsePathStyle:     true,
		RetryMaxAttempts: 1,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "test", SecretAccessKey: "test"}, nil
		}),
	})
	svc, err := NewS3Service(client, "images")
	require.NoError(t, err)

	return svc, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), seen...)
	}
}

func TestNewS3Service_RequiresBucket(t *testing.T) {
	_, err := NewS3Service(s3.New(s3.Options{Region: "us-east-1"}), " ")
	assert.Error(t, err)
}

func TestS3Service_PutAndDelete(t *testing.T) {
	svc, requests := newTestS3(t)
	ctx := context.Background()

	err := svc.Put(ctx, Object{Key: "/products/1/a.png", Body: strings.NewReader("png-bytes"), ContentType: "image/png"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "products/1/a.png"))

	got := requests()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/images/products/1/a.png", got[0].path)
	assert.Contains(t, got[0].body, "png-bytes")
	assert.Equal(t, http.MethodDelete, got[1].method)
	assert.Equal(t, "/images/products/1/a.png", got[1].path)
}

func TestS3Service_RejectsEmptyKeys(t *testing.T) {
	svc, requests := newTestS3(t)
	ctx := context.Background()

	assert.Error(t, svc.Put(ctx, Object{Key: "/", Body: strings.NewReader("x")}))
	assert.Error(t, svc.Delete(ctx, ""))
	assert.Empty(t, requests())
}

func TestS3Service_PresignGet(t *testing.T) {
	svc, requests := newTestS3(t)

	url, err := svc.PresignGet(context.Background(), "products/1/a.png", 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "/images/products/1/a.png")
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Empty(t, requests())
}
