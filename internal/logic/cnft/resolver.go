package cnft

import (
	"context"
	"fmt"

	"cnft-cli/internal/logic/compose"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
)

// TokenAccountResolver 通过 RPC 查找 (owner, mint) 的既有 token 账户。
// 找不到返回 compose.ErrMissingTokenAccount，不会隐式创建。
type TokenAccountResolver struct {
	cli *client.Client
}

func NewTokenAccountResolver(cli *client.Client) *TokenAccountResolver {
	return &TokenAccountResolver{cli: cli}
}

func (r *TokenAccountResolver) ResolveTokenAccount(ctx context.Context, owner, mint common.PublicKey) (common.PublicKey, error) {
	accounts, err := r.cli.GetTokenAccountsByOwnerByMint(ctx, owner.ToBase58(), mint.ToBase58())
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("fetch token accounts for %s: %w", owner.ToBase58(), err)
	}
	if len(accounts) == 0 {
		return common.PublicKey{}, fmt.Errorf("%w: owner=%s mint=%s",
			compose.ErrMissingTokenAccount, owner.ToBase58(), mint.ToBase58())
	}
	// 同一 (owner, mint) 可能有多个账户，取第一个
	return accounts[0].PublicKey, nil
}
