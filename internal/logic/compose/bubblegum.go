package compose

import (
	"fmt"

	"cnft-cli/internal/consts"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/types"
)

// TreeAuthority Bubblegum 树权限 PDA：[merkle_tree]
func TreeAuthority(merkleTree common.PublicKey) (common.PublicKey, error) {
	pda, _, err := common.FindProgramAddress([][]byte{merkleTree.Bytes()}, consts.BubblegumProgram)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("derive tree authority: %w", err)
	}
	return pda, nil
}

// BubblegumSigner collection CPI 签名 PDA：["collection_cpi"]
func BubblegumSigner() (common.PublicKey, error) {
	pda, _, err := common.FindProgramAddress([][]byte{[]byte("collection_cpi")}, consts.BubblegumProgram)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("derive bubblegum signer: %w", err)
	}
	return pda, nil
}

// MintToCollectionV1Param 铸造压缩 NFT 进 collection
type MintToCollectionV1Param struct {
	TreeAuthority       common.PublicKey
	LeafOwner           common.PublicKey
	LeafDelegate        common.PublicKey
	MerkleTree          common.PublicKey
	Payer               common.PublicKey // 费用支付方，签名可由外部补齐
	TreeDelegate        common.PublicKey // 树创建者/委托方，需签名
	CollectionAuthority common.PublicKey // collection 权限方，需签名
	CollectionMint      common.PublicKey
	Metadata            MetadataArgs
}

// MintToCollectionV1 构造 Bubblegum mint_to_collection_v1 指令。
// 账户顺序与程序接口一致；collection_authority_record 未使用时填程序自身地址。
func MintToCollectionV1(p MintToCollectionV1Param) (types.Instruction, error) {
	collectionMetadata, err := token_metadata.GetTokenMetaPubkey(p.CollectionMint)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("derive collection metadata: %w", err)
	}
	collectionEdition, err := token_metadata.GetMasterEdition(p.CollectionMint)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("derive collection edition: %w", err)
	}
	bubblegumSigner, err := BubblegumSigner()
	if err != nil {
		return types.Instruction{}, err
	}

	data, err := encodeInstructionData("mint_to_collection_v1", p.Metadata)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("encode mint args: %w", err)
	}

	return types.Instruction{
		ProgramID: consts.BubblegumProgram,
		Accounts: []types.AccountMeta{
			{PubKey: p.TreeAuthority, IsSigner: false, IsWritable: true},
			{PubKey: p.LeafOwner, IsSigner: false, IsWritable: false},
			{PubKey: p.LeafDelegate, IsSigner: false, IsWritable: false},
			{PubKey: p.MerkleTree, IsSigner: false, IsWritable: true},
			{PubKey: p.Payer, IsSigner: true, IsWritable: false},
			{PubKey: p.TreeDelegate, IsSigner: true, IsWritable: false},
			{PubKey: p.CollectionAuthority, IsSigner: true, IsWritable: false},
			{PubKey: consts.BubblegumProgram, IsSigner: false, IsWritable: false},
			{PubKey: p.CollectionMint, IsSigner: false, IsWritable: false},
			{PubKey: collectionMetadata, IsSigner: false, IsWritable: true},
			{PubKey: collectionEdition, IsSigner: false, IsWritable: false},
			{PubKey: bubblegumSigner, IsSigner: false, IsWritable: false},
			{PubKey: consts.SPLNoopProgram, IsSigner: false, IsWritable: false},
			{PubKey: consts.AccountCompressionProgram, IsSigner: false, IsWritable: false},
			{PubKey: consts.TokenMetaProgram, IsSigner: false, IsWritable: false},
			{PubKey: consts.SystemProgram, IsSigner: false, IsWritable: false},
		},
		Data: data,
	}, nil
}

// updateMetadataArgs update_metadata 指令参数
type updateMetadataArgs struct {
	Root            [32]byte
	Nonce           uint64
	Index           uint32
	CurrentMetadata MetadataArgs
	UpdateArgs      UpdateArgs
}

// UpdateMetadataParam 更新压缩 NFT 元数据
type UpdateMetadataParam struct {
	TreeAuthority   common.PublicKey
	Authority       common.PublicKey // collection 权限方，需签名
	CollectionMint  common.PublicKey
	LeafOwner       common.PublicKey
	LeafDelegate    common.PublicKey
	Payer           common.PublicKey
	MerkleTree      common.PublicKey
	Root            [32]byte
	Nonce           uint64
	Index           uint32
	CurrentMetadata MetadataArgs
	Update          UpdateArgs
	Proof           []common.PublicKey // merkle 证明，附加在账户表末尾
}

// UpdateMetadata 构造 Bubblegum update_metadata 指令
func UpdateMetadata(p UpdateMetadataParam) (types.Instruction, error) {
	collectionMetadata, err := token_metadata.GetTokenMetaPubkey(p.CollectionMint)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("derive collection metadata: %w", err)
	}

	data, err := encodeInstructionData("update_metadata", updateMetadataArgs{
		Root:            p.Root,
		Nonce:           p.Nonce,
		Index:           p.Index,
		CurrentMetadata: p.CurrentMetadata,
		UpdateArgs:      p.Update,
	})
	if err != nil {
		return types.Instruction{}, fmt.Errorf("encode update args: %w", err)
	}

	accounts := []types.AccountMeta{
		{PubKey: p.TreeAuthority, IsSigner: false, IsWritable: false},
		{PubKey: p.Authority, IsSigner: true, IsWritable: false},
		{PubKey: p.CollectionMint, IsSigner: false, IsWritable: false},
		{PubKey: collectionMetadata, IsSigner: false, IsWritable: false},
		{PubKey: consts.BubblegumProgram, IsSigner: false, IsWritable: false},
		{PubKey: p.LeafOwner, IsSigner: false, IsWritable: false},
		{PubKey: p.LeafDelegate, IsSigner: false, IsWritable: false},
		{PubKey: p.Payer, IsSigner: true, IsWritable: false},
		{PubKey: p.MerkleTree, IsSigner: false, IsWritable: true},
		{PubKey: consts.SPLNoopProgram, IsSigner: false, IsWritable: false},
		{PubKey: consts.AccountCompressionProgram, IsSigner: false, IsWritable: false},
		{PubKey: consts.TokenMetaProgram, IsSigner: false, IsWritable: false},
		{PubKey: consts.SystemProgram, IsSigner: false, IsWritable: false},
	}
	for _, node := range p.Proof {
		accounts = append(accounts, types.AccountMeta{PubKey: node, IsSigner: false, IsWritable: false})
	}

	return types.Instruction{
		ProgramID: consts.BubblegumProgram,
		Accounts:  accounts,
		Data:      data,
	}, nil
}

// createTreeArgs create_tree 指令参数
type createTreeArgs struct {
	MaxDepth      uint32
	MaxBufferSize uint32
	Public        *bool
}

// CreateTreeParam 创建 Bubblegum merkle 树（账户本身需已分配给压缩程序）
type CreateTreeParam struct {
	TreeAuthority common.PublicKey
	MerkleTree    common.PublicKey
	Payer         common.PublicKey
	TreeCreator   common.PublicKey
	MaxDepth      uint32
	MaxBufferSize uint32
}

// CreateTree 构造 Bubblegum create_tree 指令
func CreateTree(p CreateTreeParam) (types.Instruction, error) {
	data, err := encodeInstructionData("create_tree", createTreeArgs{
		MaxDepth:      p.MaxDepth,
		MaxBufferSize: p.MaxBufferSize,
	})
	if err != nil {
		return types.Instruction{}, fmt.Errorf("encode create_tree args: %w", err)
	}

	return types.Instruction{
		ProgramID: consts.BubblegumProgram,
		Accounts: []types.AccountMeta{
			{PubKey: p.TreeAuthority, IsSigner: false, IsWritable: true},
			{PubKey: p.MerkleTree, IsSigner: true, IsWritable: true},
			{PubKey: p.Payer, IsSigner: true, IsWritable: false},
			{PubKey: p.TreeCreator, IsSigner: true, IsWritable: false},
			{PubKey: consts.SPLNoopProgram, IsSigner: false, IsWritable: false},
			{PubKey: consts.AccountCompressionProgram, IsSigner: false, IsWritable: false},
			{PubKey: consts.SystemProgram, IsSigner: false, IsWritable: false},
		},
		Data: data,
	}, nil
}
