package compose

import (
	"context"
	"errors"
	"fmt"

	"cnft-cli/internal/consts"
	"cnft-cli/internal/logic/lut"
	"cnft-cli/pkg/logger"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
)

// ErrMissingTokenAccount 付款方或收款方没有该 mint 的 token 账户。
// 转账指令无法构造，也不会隐式创建账户。
var ErrMissingTokenAccount = errors.New("compose: token account not found for mint")

// TokenAccountResolver 按 (owner, mint) 解析已存在的 token 账户地址；
// 不存在时返回 ErrMissingTokenAccount
type TokenAccountResolver interface {
	ResolveTokenAccount(ctx context.Context, owner, mint common.PublicKey) (common.PublicKey, error)
}

// TableResolver 拉取链上查找表内容；表不存在时返回 lut.ErrTableNotFound
type TableResolver interface {
	ResolveTable(ctx context.Context, table common.PublicKey) (*lut.Table, error)
}

// MintParams 铸造参数。Payer 是费用支付方（外部补签），
// CollectionAuthority 同时作为树委托方，由服务持有的权限密钥签名。
type MintParams struct {
	LeafOwner           common.PublicKey
	Payer               common.PublicKey
	MerkleTree          common.PublicKey
	CollectionMint      common.PublicKey
	CollectionAuthority common.PublicKey
	Metadata            MetadataArgs
}

// Payment token 付款。Amount 必须已是 mint 原生整数单位。
type Payment struct {
	From     common.PublicKey // 付款方钱包
	To       common.PublicKey // 收款方钱包
	Mint     common.PublicKey
	Amount   uint64
	Decimals uint8
}

// Composition 组合结果：有序指令 + 解析后的查找表 + 费用支付方
type Composition struct {
	Instructions []types.Instruction
	Tables       []types.AddressLookupTableAccount
	FeePayer     common.PublicKey
}

// Composer 指令组合器。依赖注入两个解析器，便于用假件测试。
type Composer struct {
	tokens TokenAccountResolver
	tables TableResolver
}

func NewComposer(tokens TokenAccountResolver, tables TableResolver) *Composer {
	return &Composer{tokens: tokens, tables: tables}
}

// Compose 组合铸造（和可选付款）指令：
//   - 铸造指令恒在首位；付款转账紧随其后（顺序固定，便于审计）；
//   - 指定查找表时必须解析成功，否则直接失败；
//   - 返回的 Composition 可通过 FitsInOneTransaction 取体积建议。
func (c *Composer) Compose(ctx context.Context, mint MintParams, payment *Payment, table *common.PublicKey) (*Composition, error) {
	treeAuthority, err := TreeAuthority(mint.MerkleTree)
	if err != nil {
		return nil, err
	}

	mintIx, err := MintToCollectionV1(MintToCollectionV1Param{
		TreeAuthority:       treeAuthority,
		LeafOwner:           mint.LeafOwner,
		LeafDelegate:        mint.LeafOwner,
		MerkleTree:          mint.MerkleTree,
		Payer:               mint.Payer,
		TreeDelegate:        mint.CollectionAuthority,
		CollectionAuthority: mint.CollectionAuthority,
		CollectionMint:      mint.CollectionMint,
		Metadata:            mint.Metadata,
	})
	if err != nil {
		return nil, err
	}
	instructions := []types.Instruction{mintIx}

	if payment != nil {
		from, err := c.tokens.ResolveTokenAccount(ctx, payment.From, payment.Mint)
		if err != nil {
			return nil, err
		}
		to, err := c.tokens.ResolveTokenAccount(ctx, payment.To, payment.Mint)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, token.TransferChecked(token.TransferCheckedParam{
			From:     from,
			To:       to,
			Mint:     payment.Mint,
			Auth:     payment.From,
			Signers:  []common.PublicKey{},
			Amount:   payment.Amount,
			Decimals: payment.Decimals,
		}))
	}

	composition := &Composition{Instructions: instructions, FeePayer: mint.Payer}

	if table != nil {
		resolved, err := c.tables.ResolveTable(ctx, *table)
		if err != nil {
			// 表解析失败是致命错误，不回退到未压缩地址
			return nil, err
		}
		composition.Tables = []types.AddressLookupTableAccount{resolved.ToSDK()}
		logger.Infof("已附加查找表: %s (%d 地址)", table.ToBase58(), len(resolved.Addresses))
	}

	return composition, nil
}

// RequiredSigners 消息级别的必需签名者数（唯一签名者 ∪ 费用支付方）
func (c *Composition) RequiredSigners() int {
	signers := map[common.PublicKey]struct{}{c.FeePayer: {}}
	for _, ix := range c.Instructions {
		for _, acc := range ix.Accounts {
			if acc.IsSigner {
				signers[acc.PubKey] = struct{}{}
			}
		}
	}
	return len(signers)
}

// EstimateSize 估算 v0 消息编码后的字节数。只是估算：最终编译会去重账户并
// 压缩索引，这里按同样规则近似。
func (c *Composition) EstimateSize() int {
	covered := make(map[common.PublicKey]bool)
	for _, t := range c.Tables {
		for _, addr := range t.Addresses {
			covered[addr] = true
		}
	}

	static := map[common.PublicKey]struct{}{c.FeePayer: {}}
	lookups := 0
	for _, ix := range c.Instructions {
		// 程序地址必须留在静态账户表里
		static[ix.ProgramID] = struct{}{}
		for _, acc := range ix.Accounts {
			// 签名者账户不能走查找表
			if covered[acc.PubKey] && !acc.IsSigner {
				lookups++
				continue
			}
			static[acc.PubKey] = struct{}{}
		}
	}

	// 头 3 字节 + blockhash 32 字节
	size := 3 + 32
	size += compactLen(len(static)) + 32*len(static)
	size += compactLen(len(c.Instructions))
	for _, ix := range c.Instructions {
		size += 1 // 程序索引
		size += compactLen(len(ix.Accounts)) + len(ix.Accounts)
		size += compactLen(len(ix.Data)) + len(ix.Data)
	}
	size += compactLen(len(c.Tables))
	for range c.Tables {
		// 表地址 + 可写/只读索引数组（按查表账户总数近似）
		size += 32 + 2*compactLen(lookups) + lookups
	}
	return size
}

// FitsInOneTransaction 体积建议：估算长度 + 1 + 64*签名者数 是否不超过网络上限。
// 仅供调用方记录和判断，超限时组合与组装仍会继续。
func (c *Composition) FitsInOneTransaction() bool {
	return FitsInOneTransaction(c.EstimateSize(), c.RequiredSigners())
}

// FitsInOneTransaction 按固定公式判断序列化长度 L、签名数 S 是否放得进一笔交易
func FitsInOneTransaction(serializedLen, numSigners int) bool {
	return serializedLen+1+64*numSigners <= consts.PacketDataSize
}

// compactLen compact-u16 编码长度
func compactLen(n int) int {
	switch {
	case n < 0x80:
		return 1
	case n < 0x4000:
		return 2
	default:
		return 3
	}
}

// 便于日志输出体积建议
func (c *Composition) String() string {
	return fmt.Sprintf("instructions=%d signers=%d est_size=%d fits=%v",
		len(c.Instructions), c.RequiredSigners(), c.EstimateSize(), c.FitsInOneTransaction())
}
