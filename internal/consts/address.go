package consts

import "github.com/blocto/solana-go-sdk/common"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	//  Programs
	SystemProgramStr          = "11111111111111111111111111111111"
	TokenProgramStr           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	AssociatedTokenProgramStr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	TokenMetaProgramStr       = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
	ComputeBudgetProgramStr   = "ComputeBudget111111111111111111111111111111"

	// 压缩 NFT 相关程序
	BubblegumProgramStr          = "BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY"
	SPLNoopProgramStr            = "noopb9bkMVfRPU8AsbpTUg8AQkHtKwMYZiFUjNRtMmV"
	AccountCompressionProgramStr = "cmtDvXumGCrqC1Age74AVPhSRVXJMd8PJS91L8KbNCK"
	AddressLookupTableProgramStr = "AddressLookupTab1e1111111111111111111111111"
)

var (
	// Programs
	SystemProgram          = common.PublicKeyFromString(SystemProgramStr)
	TokenProgram           = common.PublicKeyFromString(TokenProgramStr)
	AssociatedTokenProgram = common.PublicKeyFromString(AssociatedTokenProgramStr)
	TokenMetaProgram       = common.PublicKeyFromString(TokenMetaProgramStr)
	ComputeBudgetProgram   = common.PublicKeyFromString(ComputeBudgetProgramStr)

	// 压缩 NFT 相关程序
	BubblegumProgram          = common.PublicKeyFromString(BubblegumProgramStr)
	SPLNoopProgram            = common.PublicKeyFromString(SPLNoopProgramStr)
	AccountCompressionProgram = common.PublicKeyFromString(AccountCompressionProgramStr)
	AddressLookupTableProgram = common.PublicKeyFromString(AddressLookupTableProgramStr)
)

// CnftLutAddresses 创建 cNFT 专用 LUT 时预置的程序地址
func CnftLutAddresses() []common.PublicKey {
	return []common.PublicKey{
		SPLNoopProgram,
		BubblegumProgram,
		AccountCompressionProgram,
		TokenMetaProgram,
	}
}

// PacketDataSize 单笔交易序列化后的网络字节上限
const PacketDataSize = 1232
