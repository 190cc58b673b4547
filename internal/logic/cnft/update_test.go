package cnft

import (
	"context"
	"testing"

	"cnft-cli/internal/das"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHash(t *testing.T) {
	var raw [32]byte
	for i := range raw {
		raw[i] = byte(i * 3)
	}
	decoded, err := decodeHash(base58.Encode(raw[:]))
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	_, err = decodeHash("abc") // 过短
	assert.Error(t, err)
	_, err = decodeHash("0OIl") // 非法字符
	assert.Error(t, err)
}

func TestCurrentMetadata(t *testing.T) {
	creator := types.NewAccount().PublicKey
	collectionMint := types.NewAccount().PublicKey
	asset := &das.Asset{
		Content: &das.AssetContent{
			JsonURI: "ipfs://bafymeta",
			Metadata: das.AssetMetadata{
				Name:   "Item #1",
				Symbol: "ITM",
			},
		},
		Royalty: &das.AssetRoyalty{
			BasisPoints:         500,
			PrimarySaleHappened: true,
		},
		Creators: []das.AssetCreator{
			{Address: creator.ToBase58(), Share: 100, Verified: true},
		},
		Mutable: true,
	}

	meta := currentMetadata(asset, collectionMint)
	assert.Equal(t, "Item #1", meta.Name)
	assert.Equal(t, "ITM", meta.Symbol)
	assert.Equal(t, "ipfs://bafymeta", meta.URI)
	assert.Equal(t, uint16(500), meta.SellerFeeBasisPoints)
	assert.True(t, meta.PrimarySaleHappened)
	assert.True(t, meta.IsMutable)
	require.NotNil(t, meta.Collection)
	assert.True(t, meta.Collection.Verified, "入集后的叶子 collection 应为已验证")
	assert.Equal(t, collectionMint, meta.Collection.Key)
	require.Len(t, meta.Creators, 1)
	assert.Equal(t, creator, meta.Creators[0].Address)
	assert.Equal(t, uint8(100), meta.Creators[0].Share)
}

func TestCurrentMetadata_SparseAsset(t *testing.T) {
	meta := currentMetadata(&das.Asset{}, common.PublicKey{})
	assert.Empty(t, meta.Name)
	assert.Zero(t, meta.SellerFeeBasisPoints)
	assert.NotNil(t, meta.Creators, "creators 必须编码为空序列而非缺省")
}

func TestResolveImage(t *testing.T) {
	s := &Service{}

	uri, err := s.resolveImage(context.Background(), Image{URI: "ipfs://bafyimg"})
	require.NoError(t, err)
	assert.Equal(t, "ipfs://bafyimg", uri, "现成 URI 不应触发上传")

	_, err = s.resolveImage(context.Background(), Image{})
	assert.ErrorIs(t, err, ErrNoImage)
}
