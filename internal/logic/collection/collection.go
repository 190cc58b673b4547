package collection

import (
	"context"
	"fmt"

	"cnft-cli/internal/logic/assemble"
	"cnft-cli/internal/logic/lut"
	"cnft-cli/internal/uploader"
	"cnft-cli/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
)

// CreateParam 创建 collection 的参数
type CreateParam struct {
	Name                 string
	Symbol               string
	Description          string
	SellerFeeBasisPoints uint16
	ExternalURL          string
	ImagePath            string            // collection 封面图
	LutAddress           *common.PublicKey // 非空时把新 mint 追加进该表
}

// CreateResult 创建结果
type CreateResult struct {
	CollectionMint string `json:"collectionMint"`
	MetadataURI    string `json:"metadataUri"`
	Signature      string `json:"signature"`
}

// Service collection NFT 的创建：上传素材、铸造 1 枚不可分割 token、
// 建立 metadata 与 master edition
type Service struct {
	cli      *client.Client
	uploader *uploader.Client
	luts     *lut.Manager
}

func NewService(cli *client.Client, up *uploader.Client, luts *lut.Manager) *Service {
	return &Service{cli: cli, uploader: up, luts: luts}
}

// Create 创建 collection。authority 同时作为 mint/update 权限方与费用支付方。
func (s *Service) Create(ctx context.Context, authority types.Account, p CreateParam) (*CreateResult, error) {
	imageCid, err := s.uploader.UploadFile(ctx, p.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("upload collection image: %w", err)
	}
	meta := uploader.NewImageMetadata(p.Name, p.Symbol, p.Description, p.SellerFeeBasisPoints, imageCid, p.ExternalURL, nil)
	jsonCid, err := s.uploader.UploadJSON(ctx, meta)
	if err != nil {
		return nil, fmt.Errorf("upload collection metadata: %w", err)
	}
	metadataURI := uploader.URI(jsonCid)
	logger.Infof("collection 元数据已上传: %s", metadataURI)

	mint := types.NewAccount()
	instructions, err := s.buildMintInstructions(ctx, authority, mint, p, metadataURI)
	if err != nil {
		return nil, err
	}

	sig, err := assemble.SignAndSend(ctx, s.cli, authority, []types.Account{mint}, instructions, nil)
	if err != nil {
		return nil, err
	}
	logger.Infof("collection 已创建: %s", mint.PublicKey.ToBase58())

	if p.LutAddress != nil {
		if _, err := s.luts.Extend(ctx, authority, lut.ExtendParam{
			Table:     p.LutAddress,
			Addresses: []common.PublicKey{mint.PublicKey},
		}); err != nil {
			return nil, fmt.Errorf("extend lookup table with collection mint: %w", err)
		}
	}

	return &CreateResult{
		CollectionMint: mint.PublicKey.ToBase58(),
		MetadataURI:    metadataURI,
		Signature:      sig,
	}, nil
}

// buildMintInstructions 建 mint 账户、铸 1 枚进权限方 ATA、
// 再挂 metadata 与 master edition（master edition 要求供应量恰为 1）
func (s *Service) buildMintInstructions(ctx context.Context, authority types.Account, mint types.Account, p CreateParam, metadataURI string) ([]types.Instruction, error) {
	rent, err := s.cli.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return nil, fmt.Errorf("fetch rent exemption: %w", err)
	}
	ata, _, err := common.FindAssociatedTokenAddress(authority.PublicKey, mint.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("derive associated token account: %w", err)
	}
	metadataAccount, err := token_metadata.GetTokenMetaPubkey(mint.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("derive metadata account: %w", err)
	}
	editionAccount, err := token_metadata.GetMasterEdition(mint.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("derive master edition account: %w", err)
	}

	maxSupply := uint64(0)
	return []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     authority.PublicKey,
			New:      mint.PublicKey,
			Owner:    common.TokenProgramID,
			Lamports: rent,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   0,
			Mint:       mint.PublicKey,
			MintAuth:   authority.PublicKey,
			FreezeAuth: &authority.PublicKey,
		}),
		associated_token_account.CreateAssociatedTokenAccount(associated_token_account.CreateAssociatedTokenAccountParam{
			Funder:                 authority.PublicKey,
			Owner:                  authority.PublicKey,
			Mint:                   mint.PublicKey,
			AssociatedTokenAccount: ata,
		}),
		token.MintTo(token.MintToParam{
			Mint:   mint.PublicKey,
			To:     ata,
			Auth:   authority.PublicKey,
			Amount: 1,
		}),
		token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
			Metadata:                metadataAccount,
			Mint:                    mint.PublicKey,
			MintAuthority:           authority.PublicKey,
			Payer:                   authority.PublicKey,
			UpdateAuthority:         authority.PublicKey,
			UpdateAuthorityIsSigner: true,
			IsMutable:               true,
			Data: token_metadata.DataV2{
				Name:                 p.Name,
				Symbol:               p.Symbol,
				Uri:                  metadataURI,
				SellerFeeBasisPoints: p.SellerFeeBasisPoints,
			},
		}),
		token_metadata.CreateMasterEditionV3(token_metadata.CreateMasterEditionParam{
			Edition:         editionAccount,
			Mint:            mint.PublicKey,
			UpdateAuthority: authority.PublicKey,
			MintAuthority:   authority.PublicKey,
			Metadata:        metadataAccount,
			Payer:           authority.PublicKey,
			MaxSupply:       &maxSupply,
		}),
	}, nil
}
