package das

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cnft-cli/internal/consts"
	"cnft-cli/pkg/retry"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/zeromicro/go-zero/rest/httpc"
)

// ErrNotFound 表示资产 / 证明在读接口上不存在
var ErrNotFound = errors.New("das: asset not found")

// Client DAS 读接口客户端。接口形如 (params, page, limit) -> {items}，
// 分页读取统一走 FetchAll。
type Client struct {
	endpoint string
	policy   retry.Policy
}

func NewClient(endpoint string, policy retry.Policy) *Client {
	return &Client{endpoint: endpoint, policy: policy}
}

type rpcRequest struct {
	JsonRpc string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call 发送一次 JSON-RPC 请求并把 result 解到 out
func (c *Client) call(ctx context.Context, method string, params, out interface{}) error {
	resp, err := httpc.Do(ctx, http.MethodPost, c.endpoint, rpcRequest{
		JsonRpc: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("das %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("das %s: http status %d", method, resp.StatusCode)
	}

	var rr rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return fmt.Errorf("das %s: decode response: %w", method, err)
	}
	if rr.Error != nil {
		return fmt.Errorf("das %s: rpc error %d: %s", method, rr.Error.Code, rr.Error.Message)
	}
	if len(rr.Result) == 0 || string(rr.Result) == "null" {
		return fmt.Errorf("%w: %s", ErrNotFound, method)
	}
	if err := json.Unmarshal(rr.Result, out); err != nil {
		return fmt.Errorf("das %s: decode result: %w", method, err)
	}
	return nil
}

type idParams struct {
	ID string `json:"id"`
}

// GetAsset 按资产 ID 读取
func (c *Client) GetAsset(ctx context.Context, assetID string) (*Asset, error) {
	var asset Asset
	if err := c.call(ctx, "getAsset", idParams{ID: assetID}, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetAssetProof 读取资产的 merkle 证明
func (c *Client) GetAssetProof(ctx context.Context, assetID string) (*AssetProof, error) {
	var proof AssetProof
	if err := c.call(ctx, "getAssetProof", idParams{ID: assetID}, &proof); err != nil {
		return nil, err
	}
	return &proof, nil
}

// GetAssetWithProof 聚合 getAsset + getAssetProof（更新指令的输入）
func (c *Client) GetAssetWithProof(ctx context.Context, assetID string) (*AssetWithProof, error) {
	asset, err := c.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	proof, err := c.GetAssetProof(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return &AssetWithProof{Asset: *asset, Proof: *proof}, nil
}

type assetsByOwnerParams struct {
	OwnerAddress string `json:"ownerAddress"`
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
}

// GetAssetsByOwner 按持有人读取全部资产
func (c *Client) GetAssetsByOwner(ctx context.Context, owner string, paginate bool) ([]Asset, error) {
	return FetchAll(ctx, c.policy, func(ctx context.Context, page, limit int) ([]Asset, error) {
		var result assetPage
		err := c.call(ctx, "getAssetsByOwner", assetsByOwnerParams{
			OwnerAddress: owner,
			Page:         page,
			Limit:        limit,
		}, &result)
		return result.Items, err
	}, paginate, DefaultPageLimit)
}

type assetsByGroupParams struct {
	GroupKey   string `json:"groupKey"`
	GroupValue string `json:"groupValue"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

// GetAssetsByGroup 按 collection 读取全部资产
func (c *Client) GetAssetsByGroup(ctx context.Context, collection string, paginate bool) ([]Asset, error) {
	return FetchAll(ctx, c.policy, func(ctx context.Context, page, limit int) ([]Asset, error) {
		var result assetPage
		err := c.call(ctx, "getAssetsByGroup", assetsByGroupParams{
			GroupKey:   "collection",
			GroupValue: collection,
			Page:       page,
			Limit:      limit,
		}, &result)
		return result.Items, err
	}, paginate, DefaultPageLimit)
}

// SearchFilter searchAssets 的过滤条件
type SearchFilter struct {
	Owner      string // 持有人地址，可为空
	Collection string // collection 地址，可为空
	Compressed bool   // 是否只搜压缩资产
}

type searchAssetsParams struct {
	OwnerAddress string   `json:"ownerAddress,omitempty"`
	Grouping     []string `json:"grouping,omitempty"`
	Compressed   bool     `json:"compressed"`
	Page         int      `json:"page"`
	Limit        int      `json:"limit"`
}

// SearchAssets 组合条件搜索
func (c *Client) SearchAssets(ctx context.Context, filter SearchFilter, paginate bool) ([]Asset, error) {
	params := searchAssetsParams{
		OwnerAddress: filter.Owner,
		Compressed:   filter.Compressed,
	}
	if filter.Collection != "" {
		params.Grouping = []string{"collection", filter.Collection}
	}
	return FetchAll(ctx, c.policy, func(ctx context.Context, page, limit int) ([]Asset, error) {
		p := params
		p.Page = page
		p.Limit = limit
		var result assetPage
		err := c.call(ctx, "searchAssets", p, &result)
		return result.Items, err
	}, paginate, DefaultPageLimit)
}

type signaturesParams struct {
	ID    string `json:"id"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// GetSignaturesForAsset 读取资产的交易签名历史
func (c *Client) GetSignaturesForAsset(ctx context.Context, assetID string, paginate bool) ([]AssetSignature, error) {
	return FetchAll(ctx, c.policy, func(ctx context.Context, page, limit int) ([]AssetSignature, error) {
		var result signaturePage
		err := c.call(ctx, "getSignaturesForAsset", signaturesParams{
			ID:    assetID,
			Page:  page,
			Limit: limit,
		}, &result)
		return result.Items, err
	}, paginate, DefaultPageLimit)
}

// DeriveAssetID 由 merkle 树地址和叶子序号推导资产 ID：
// PDA("asset", tree, leaf_index_le_u64) @ Bubblegum
func DeriveAssetID(tree common.PublicKey, leafIndex uint64) (common.PublicKey, error) {
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], leafIndex)
	pda, _, err := common.FindProgramAddress(
		[][]byte{[]byte("asset"), tree.Bytes(), idx[:]},
		consts.BubblegumProgram,
	)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("derive asset id: %w", err)
	}
	return pda, nil
}
