package nonce

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"cnft-cli/internal/logic/assemble"
	"cnft-cli/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/compute_budget"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

var (
	// ErrAccountNotFound nonce 账户不存在
	ErrAccountNotFound = errors.New("nonce: account not found")
	// ErrInvalidAccountData 账户数据不符合 nonce 布局
	ErrInvalidAccountData = errors.New("nonce: invalid account data")
)

// Service 持久 nonce 账户的创建与查询
type Service struct {
	cli *client.Client
}

func NewService(cli *client.Client) *Service {
	return &Service{cli: cli}
}

// CreateResult 创建结果
type CreateResult struct {
	NonceAccount string `json:"nonceAccount"`
	Signature    string `json:"signature"`
}

// Create 创建并初始化一个持久 nonce 账户，authority 同时作为
// nonce 权限方和费用支付方。新账户密钥随机生成，仅用于本次签名。
func (s *Service) Create(ctx context.Context, authority types.Account) (*CreateResult, error) {
	rent, err := s.cli.GetMinimumBalanceForRentExemption(ctx, system.NonceAccountSize)
	if err != nil {
		return nil, fmt.Errorf("fetch rent exemption: %w", err)
	}
	nonceAccount := types.NewAccount()

	instructions := []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     authority.PublicKey,
			New:      nonceAccount.PublicKey,
			Owner:    common.SystemProgramID,
			Lamports: rent,
			Space:    system.NonceAccountSize,
		}),
		system.InitializeNonceAccount(system.InitializeNonceAccountParam{
			Nonce: nonceAccount.PublicKey,
			Auth:  authority.PublicKey,
		}),
		compute_budget.SetComputeUnitPrice(compute_budget.SetComputeUnitPriceParam{
			MicroLamports: 2000,
		}),
	}

	sig, err := assemble.SignAndSend(ctx, s.cli, authority, []types.Account{nonceAccount}, instructions, nil)
	if err != nil {
		return nil, err
	}
	logger.Infof("nonce 账户已创建: %s", nonceAccount.PublicKey.ToBase58())
	return &CreateResult{NonceAccount: nonceAccount.PublicKey.ToBase58(), Signature: sig}, nil
}

// Info nonce 账户当前状态
type Info struct {
	Authority string `json:"authority"`
	Nonce     string `json:"nonce"`
}

// nonce 账户布局（80 字节）：
// u32 version + u32 state + [32] authority + [32] durable_nonce + u64 fee_calculator
const accountDataLen = 80

// ParseAccountData 解析 nonce 账户数据
func ParseAccountData(data []byte) (*Info, error) {
	if len(data) < accountDataLen {
		return nil, ErrInvalidAccountData
	}
	// state=1 表示已初始化
	if binary.LittleEndian.Uint32(data[4:8]) != 1 {
		return nil, fmt.Errorf("%w: account not initialized", ErrInvalidAccountData)
	}
	return &Info{
		Authority: common.PublicKeyFromBytes(data[8:40]).ToBase58(),
		Nonce:     base58.Encode(data[40:72]),
	}, nil
}

// Fetch 查询 nonce 账户的权限方与当前 nonce 值
func (s *Service) Fetch(ctx context.Context, account common.PublicKey) (*Info, error) {
	info, err := s.cli.GetAccountInfo(ctx, account.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("fetch nonce account %s: %w", account.ToBase58(), err)
	}
	if len(info.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, account.ToBase58())
	}
	return ParseAccountData(info.Data)
}
