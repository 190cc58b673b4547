package tree

import (
	"context"
	"fmt"

	"cnft-cli/internal/consts"
	"cnft-cli/internal/logic/assemble"
	"cnft-cli/internal/logic/compose"
	"cnft-cli/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
)

// 默认树参数：1.6 万叶子、64 并发变更
const (
	DefaultMaxDepth      = 14
	DefaultMaxBufferSize = 64
)

// AccountSize 并发 merkle 树账户的字节数：
// 56 账户头 + 24 树状态(sequence/active_index/buffer_size) +
// changelog 环形缓冲 + rightmost path。canopy 本系统不使用，恒为 0。
func AccountSize(maxDepth, maxBufferSize uint32) uint64 {
	const header = 56 + 24
	pathNode := uint64(40 + 32*maxDepth)
	return header + uint64(maxBufferSize)*pathNode + pathNode
}

// CreateParam 创建树的参数，零值字段用默认值
type CreateParam struct {
	MaxDepth      uint32
	MaxBufferSize uint32
}

// CreateResult 创建结果
type CreateResult struct {
	MerkleTree string `json:"merkleTreeAddress"`
	Signature  string `json:"signature"`
}

// Service Bubblegum merkle 树的创建
type Service struct {
	cli *client.Client
}

func NewService(cli *client.Client) *Service {
	return &Service{cli: cli}
}

// Create 分配树账户并初始化为 Bubblegum 树。树账户密钥随机生成，
// authority 作为费用支付方和树创建者。
func (s *Service) Create(ctx context.Context, authority types.Account, p CreateParam) (*CreateResult, error) {
	if p.MaxDepth == 0 {
		p.MaxDepth = DefaultMaxDepth
	}
	if p.MaxBufferSize == 0 {
		p.MaxBufferSize = DefaultMaxBufferSize
	}

	space := AccountSize(p.MaxDepth, p.MaxBufferSize)
	rent, err := s.cli.GetMinimumBalanceForRentExemption(ctx, space)
	if err != nil {
		return nil, fmt.Errorf("fetch rent exemption: %w", err)
	}

	merkleTree := types.NewAccount()
	treeAuthority, err := compose.TreeAuthority(merkleTree.PublicKey)
	if err != nil {
		return nil, err
	}

	createTreeIx, err := compose.CreateTree(compose.CreateTreeParam{
		TreeAuthority: treeAuthority,
		MerkleTree:    merkleTree.PublicKey,
		Payer:         authority.PublicKey,
		TreeCreator:   authority.PublicKey,
		MaxDepth:      p.MaxDepth,
		MaxBufferSize: p.MaxBufferSize,
	})
	if err != nil {
		return nil, err
	}

	instructions := []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     authority.PublicKey,
			New:      merkleTree.PublicKey,
			Owner:    consts.AccountCompressionProgram,
			Lamports: rent,
			Space:    space,
		}),
		createTreeIx,
	}

	sig, err := assemble.SignAndSend(ctx, s.cli, authority, []types.Account{merkleTree}, instructions, nil)
	if err != nil {
		return nil, err
	}
	logger.Infof("merkle 树已创建: %s (depth=%d buffer=%d)", merkleTree.PublicKey.ToBase58(), p.MaxDepth, p.MaxBufferSize)
	return &CreateResult{MerkleTree: merkleTree.PublicKey.ToBase58(), Signature: sig}, nil
}
