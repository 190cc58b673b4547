package compose

import (
	"crypto/sha256"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/near/borsh-go"
)

// Bubblegum 指令参数的 borsh 编码结构。
// 字段顺序必须与程序接口一致，不可调整。

// TokenStandard 枚举
const (
	TokenStandardNonFungible borsh.Enum = iota
	TokenStandardFungibleAsset
	TokenStandardFungible
	TokenStandardNonFungibleEdition
)

// TokenProgramVersion 枚举
const (
	TokenProgramVersionOriginal borsh.Enum = iota
	TokenProgramVersionToken2022
)

type Creator struct {
	Address  common.PublicKey
	Verified bool
	Share    uint8
}

type Collection struct {
	Verified bool
	Key      common.PublicKey
}

type Uses struct {
	UseMethod borsh.Enum
	Remaining uint64
	Total     uint64
}

// MetadataArgs 铸造时的链上元数据参数
type MetadataArgs struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	PrimarySaleHappened  bool
	IsMutable            bool
	EditionNonce         *uint8
	TokenStandard        *borsh.Enum
	Collection           *Collection
	Uses                 *Uses
	TokenProgramVersion  borsh.Enum
	Creators             []Creator
}

// UpdateArgs 更新元数据时的可选字段，nil 表示保持原值
type UpdateArgs struct {
	Name                 *string
	Symbol               *string
	URI                  *string
	Creators             *[]Creator
	SellerFeeBasisPoints *uint16
	PrimarySaleHappened  *bool
	IsMutable            *bool
}

// NewMetadataArgs 按本工具的固定约定构造参数：
// NonFungible、原版 Token 程序、collection 先不验证（由铸造指令在链上验证）
func NewMetadataArgs(name, symbol, uri string, sellerFeeBasisPoints uint16, collectionMint common.PublicKey, creators []Creator) MetadataArgs {
	tokenStandard := TokenStandardNonFungible
	if creators == nil {
		creators = []Creator{}
	}
	return MetadataArgs{
		Name:                 name,
		Symbol:               symbol,
		URI:                  uri,
		SellerFeeBasisPoints: sellerFeeBasisPoints,
		PrimarySaleHappened:  false,
		IsMutable:            true,
		TokenStandard:        &tokenStandard,
		Collection:           &Collection{Verified: false, Key: collectionMint},
		TokenProgramVersion:  TokenProgramVersionOriginal,
		Creators:             creators,
	}
}

// anchorDiscriminator Anchor 指令识别码：sha256("global:<name>") 前 8 字节
func anchorDiscriminator(name string) []byte {
	h := sha256.Sum256([]byte("global:" + name))
	return h[:8]
}

// encodeInstructionData 识别码 + borsh 序列化的参数
func encodeInstructionData(name string, args ...interface{}) ([]byte, error) {
	data := anchorDiscriminator(name)
	for _, a := range args {
		encoded, err := borsh.Serialize(a)
		if err != nil {
			return nil, err
		}
		data = append(data, encoded...)
	}
	return data, nil
}
