package svc

import (
	"fmt"

	"cnft-cli/internal/config"
	"cnft-cli/internal/das"
	"cnft-cli/internal/logic/cnft"
	"cnft-cli/internal/logic/collection"
	"cnft-cli/internal/logic/compose"
	"cnft-cli/internal/logic/lut"
	"cnft-cli/internal/logic/nonce"
	"cnft-cli/internal/logic/tree"
	"cnft-cli/internal/output"
	"cnft-cli/internal/uploader"
	"cnft-cli/internal/wallet"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/types"
)

const defaultStorageEndpoint = "https://api.nft.storage"

// ServiceContext 按配置装配好的依赖集合，命令层只从这里取服务
type ServiceContext struct {
	Config config.Config

	Rpc      *client.Client
	Das      *das.Client
	Uploader *uploader.Client
	Luts     *lut.Manager
	Nonces   *nonce.Service
	Trees    *tree.Service
	Out      *output.Writer

	// 以下依赖权限密钥，未配置 authority_keypair 时为空
	Authority   types.Account
	hasAuth     bool
	Cnft        *cnft.Service
	Collections *collection.Service
}

// NewServiceContext 装配服务上下文。权限密钥和上传凭证都是可选的，
// 需要它们的命令在执行前调用 RequireXxx 校验。
func NewServiceContext(c config.Config, writeOutput bool) (*ServiceContext, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rpc := client.NewClient(c.RpcConf.Endpoint)
	policy := c.RetryConf.ToPolicy()
	dasCli := das.NewClient(c.DasEndpoint(), policy)
	luts := lut.NewManager(rpc)

	storageEndpoint := c.StorageConf.Endpoint
	if storageEndpoint == "" {
		storageEndpoint = defaultStorageEndpoint
	}
	up := uploader.NewClient(storageEndpoint, c.StorageConf.Token, policy)

	ctx := &ServiceContext{
		Config:   c,
		Rpc:      rpc,
		Das:      dasCli,
		Uploader: up,
		Luts:     luts,
		Nonces:   nonce.NewService(rpc),
		Trees:    tree.NewService(rpc),
		Out:      output.NewWriter(c.OutDir, writeOutput),
	}

	if c.AuthorityKeypair != "" {
		authority, err := wallet.Load(c.AuthorityKeypair)
		if err != nil {
			return nil, fmt.Errorf("load authority keypair: %w", err)
		}
		ctx.Authority = authority
		ctx.hasAuth = true

		composer := compose.NewComposer(cnft.NewTokenAccountResolver(rpc), luts)
		ctx.Cnft = cnft.NewService(rpc, dasCli, up, composer, luts, authority)
		ctx.Collections = collection.NewService(rpc, up, luts)
	}

	return ctx, nil
}

// RequireAuthority 校验权限密钥已加载
func (s *ServiceContext) RequireAuthority() error {
	if !s.hasAuth {
		return s.Config.RequireAuthority()
	}
	return nil
}

// RequireUploader 校验上传凭证已配置
func (s *ServiceContext) RequireUploader() error {
	return s.Config.RequireUploader()
}
