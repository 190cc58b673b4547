package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"cnft-cli/pkg/logger"
	"cnft-cli/pkg/retry"

	"github.com/zeromicro/go-zero/rest/httpc"
)

// ErrUploadRejected 存储服务明确拒绝了上传（鉴权失败、配额等），重试无意义
var ErrUploadRejected = errors.New("uploader: upload rejected by storage service")

// Client nft.storage 上传客户端。文件与元数据 JSON 都走 /upload 接口，
// 返回的 CID 用 ipfs:// 形式写进链上 URI。
type Client struct {
	endpoint string
	token    string
	policy   retry.Policy
}

func NewClient(endpoint, token string, policy retry.Policy) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		policy:   policy,
	}
}

type uploadResponse struct {
	Ok    bool `json:"ok"`
	Value struct {
		Cid string `json:"cid"`
	} `json:"value"`
	Error struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

// UploadBytes 上传原始字节，返回 CID
func (c *Client) UploadBytes(ctx context.Context, data []byte, contentType string) (string, error) {
	return retry.Do(ctx, c.policy, func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/upload", bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", contentType)

		resp, err := httpc.DoRequest(req)
		if err != nil {
			return "", fmt.Errorf("upload request: %w", err)
		}
		defer resp.Body.Close()

		var body uploadResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", fmt.Errorf("decode upload response: %w", err)
		}
		// 4xx 是明确拒绝，不值得重试
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", retry.Permanent(fmt.Errorf("%w: %s (%s)", ErrUploadRejected, body.Error.Message, resp.Status))
		}
		if !body.Ok || body.Value.Cid == "" {
			return "", fmt.Errorf("upload failed: %s (%s)", body.Error.Message, resp.Status)
		}
		return body.Value.Cid, nil
	})
}

// UploadFile 上传本地文件，按扩展名推断 Content-Type
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	cid, err := c.UploadBytes(ctx, data, contentTypeFor(path))
	if err != nil {
		return "", err
	}
	logger.Infof("文件已上传: %s -> %s", filepath.Base(path), cid)
	return cid, nil
}

// UploadJSON 序列化并上传 JSON 对象（链下元数据）
func (c *Client) UploadJSON(ctx context.Context, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return c.UploadBytes(ctx, data, "application/json")
}

// URI CID 的链上 URI 形式
func URI(cid string) string {
	return "ipfs://" + cid
}

// GatewayURL 可直接访问的 HTTP 网关地址
func GatewayURL(cid string) string {
	return fmt.Sprintf("https://%s.ipfs.nftstorage.link", cid)
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
