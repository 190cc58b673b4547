package uploader

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cnft-cli/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() retry.Policy {
	return retry.Policy{
		InitialDelay: 0,
		MaxDelay:     0,
		Multiplier:   2,
		MaxAttempts:  3,
		Jitter:       retry.JitterNone,
	}
}

func TestUploadBytes(t *testing.T) {
	var gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(map[string]any{
			"ok":    true,
			"value": map[string]string{"cid": "bafytestcid"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", fastPolicy())
	cid, err := c.UploadBytes(context.Background(), []byte("payload"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "bafytestcid", cid)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, []byte("payload"), gotBody)
}

// 5xx 触发重试，恢复后成功
func TestUploadBytes_RetriesServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]any{"ok": false})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ok":    true,
			"value": map[string]string{"cid": "bafyrecovered"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", fastPolicy())
	cid, err := c.UploadBytes(context.Background(), []byte("x"), "application/json")
	require.NoError(t, err)
	assert.Equal(t, "bafyrecovered", cid)
	assert.Equal(t, 3, calls)
}

// 鉴权失败是明确拒绝，不应打满重试次数
func TestUploadBytes_RejectedNotRetriedBlindly(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"ok":    false,
			"error": map[string]string{"name": "HTTPError", "message": "Unauthorized"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-token", fastPolicy())
	_, err := c.UploadBytes(context.Background(), []byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrUploadRejected)
	assert.Equal(t, 1, calls, "明确拒绝只应请求一次")
}

func TestUploadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, "Test NFT", decoded["name"])
		json.NewEncoder(w).Encode(map[string]any{
			"ok":    true,
			"value": map[string]string{"cid": "bafyjson"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", fastPolicy())
	cid, err := c.UploadJSON(context.Background(), map[string]string{"name": "Test NFT"})
	require.NoError(t, err)
	assert.Equal(t, "bafyjson", cid)
}

func TestURIForms(t *testing.T) {
	assert.Equal(t, "ipfs://bafy123", URI("bafy123"))
	assert.Equal(t, "https://bafy123.ipfs.nftstorage.link", GatewayURL("bafy123"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", contentTypeFor("art/1.PNG"))
	assert.Equal(t, "image/jpeg", contentTypeFor("a.jpg"))
	assert.Equal(t, "application/json", contentTypeFor("meta.json"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("blob.bin"))
}
