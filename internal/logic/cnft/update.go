package cnft

import (
	"context"
	"fmt"

	"cnft-cli/internal/das"
	"cnft-cli/internal/logic/assemble"
	"cnft-cli/internal/logic/compose"
	"cnft-cli/pkg/logger"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

// UpdateArgs 更新压缩 NFT 元数据。nil 字段保持原值
type UpdateArgs struct {
	AssetID    string
	Name       *string
	URI        *string
	LutAddress *common.PublicKey
}

// UpdateResult 更新结果
type UpdateResult struct {
	AssetID   string `json:"assetId"`
	Signature string `json:"signature"`
}

// Update 从读接口取回资产当前状态与 merkle 证明，构造更新指令并由
// 权限方签名提交。当前元数据必须与链上叶子完全一致，否则链上校验失败。
func (s *Service) Update(ctx context.Context, args UpdateArgs) (*UpdateResult, error) {
	awp, err := s.das.GetAssetWithProof(ctx, args.AssetID)
	if err != nil {
		return nil, err
	}
	asset := awp.Asset
	if asset.Compression == nil || !asset.Compression.Compressed {
		return nil, fmt.Errorf("cnft: asset %s is not compressed", args.AssetID)
	}

	merkleTree := common.PublicKeyFromString(asset.Compression.Tree)
	treeAuthority, err := compose.TreeAuthority(merkleTree)
	if err != nil {
		return nil, err
	}
	root, err := decodeHash(awp.Proof.Root)
	if err != nil {
		return nil, fmt.Errorf("decode proof root: %w", err)
	}
	proof := make([]common.PublicKey, 0, len(awp.Proof.Proof))
	for _, node := range awp.Proof.Proof {
		proof = append(proof, common.PublicKeyFromString(node))
	}

	leafOwner := common.PublicKeyFromString(asset.Ownership.Owner)
	leafDelegate := leafOwner
	if asset.Ownership.Delegate != "" {
		leafDelegate = common.PublicKeyFromString(asset.Ownership.Delegate)
	}

	collectionMint := common.PublicKeyFromString(asset.Collection())
	ix, err := compose.UpdateMetadata(compose.UpdateMetadataParam{
		TreeAuthority:   treeAuthority,
		Authority:       s.authority.PublicKey,
		CollectionMint:  collectionMint,
		LeafOwner:       leafOwner,
		LeafDelegate:    leafDelegate,
		Payer:           s.authority.PublicKey,
		MerkleTree:      merkleTree,
		Root:            root,
		Nonce:           uint64(asset.Compression.LeafID),
		Index:           uint32(asset.Compression.LeafID),
		CurrentMetadata: currentMetadata(&asset, collectionMint),
		Update: compose.UpdateArgs{
			Name: args.Name,
			URI:  args.URI,
		},
		Proof: proof,
	})
	if err != nil {
		return nil, err
	}

	var tables []types.AddressLookupTableAccount
	if args.LutAddress != nil {
		resolved, err := s.tables.ResolveTable(ctx, *args.LutAddress)
		if err != nil {
			return nil, err
		}
		tables = []types.AddressLookupTableAccount{resolved.ToSDK()}
	}

	sig, err := assemble.SignAndSend(ctx, s.cli, s.authority, nil, []types.Instruction{ix}, tables)
	if err != nil {
		return nil, err
	}
	logger.Infof("资产已更新: %s", args.AssetID)
	return &UpdateResult{AssetID: args.AssetID, Signature: sig}, nil
}

// currentMetadata 把读接口返回的资产状态还原成链上叶子的元数据参数
func currentMetadata(asset *das.Asset, collectionMint common.PublicKey) compose.MetadataArgs {
	var name, symbol, uri string
	if asset.Content != nil {
		name = asset.Content.Metadata.Name
		symbol = asset.Content.Metadata.Symbol
		uri = asset.Content.JsonURI
	}
	var bps uint16
	primarySale := false
	if asset.Royalty != nil {
		bps = asset.Royalty.BasisPoints
		primarySale = asset.Royalty.PrimarySaleHappened
	}
	creators := make([]compose.Creator, 0, len(asset.Creators))
	for _, c := range asset.Creators {
		creators = append(creators, compose.Creator{
			Address:  common.PublicKeyFromString(c.Address),
			Verified: c.Verified,
			Share:    c.Share,
		})
	}

	tokenStandard := compose.TokenStandardNonFungible
	return compose.MetadataArgs{
		Name:                 name,
		Symbol:               symbol,
		URI:                  uri,
		SellerFeeBasisPoints: bps,
		PrimarySaleHappened:  primarySale,
		IsMutable:            asset.Mutable,
		TokenStandard:        &tokenStandard,
		// 铸造进 collection 的叶子其 collection 已被链上验证
		Collection:          &compose.Collection{Verified: true, Key: collectionMint},
		TokenProgramVersion: compose.TokenProgramVersionOriginal,
		Creators:            creators,
	}
}

// decodeHash base58 字符串转 32 字节哈希
func decodeHash(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := base58.Decode(s)
	if err != nil {
		return out, err
	}
	if len(raw) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}
