package cnft

import (
	"context"
	"errors"
	"fmt"

	"cnft-cli/internal/das"
	"cnft-cli/internal/logic/assemble"
	"cnft-cli/internal/logic/compose"
	"cnft-cli/internal/uploader"
	"cnft-cli/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

// ErrNoImage 铸造时 image 三种来源（URI / 文件 / 原始字节）一个都没给
var ErrNoImage = errors.New("cnft: image uri, path or data is required")

// CollectionInfo 目标 collection 的链下描述信息，写进每个 NFT 的元数据
type CollectionInfo struct {
	Mint                 common.PublicKey
	Name                 string
	Symbol               string
	Description          string
	SellerFeeBasisPoints uint16
	ExternalURL          string
}

// Image NFT 图片来源，三选一：现成 URI、本地文件、内存字节
type Image struct {
	URI  string
	Path string
	Data []byte
}

// MintArgs 铸造一个压缩 NFT
type MintArgs struct {
	Name       string
	Image      Image
	Attributes []uploader.Attribute
	Creators   []compose.Creator
	MintTo     *common.PublicKey // 叶子持有人，缺省为权限方自己
	MerkleTree common.PublicKey
	Collection CollectionInfo
	LutAddress *common.PublicKey
}

// Service 压缩 NFT 的铸造与更新编排
type Service struct {
	cli       *client.Client
	das       *das.Client
	uploader  *uploader.Client
	composer  *compose.Composer
	tables    compose.TableResolver
	authority types.Account
}

func NewService(cli *client.Client, dasCli *das.Client, up *uploader.Client, composer *compose.Composer, tables compose.TableResolver, authority types.Account) *Service {
	return &Service{
		cli:       cli,
		das:       dasCli,
		uploader:  up,
		composer:  composer,
		tables:    tables,
		authority: authority,
	}
}

// resolveImage 把图片来源统一成 URI，文件和字节先经存储服务上传
func (s *Service) resolveImage(ctx context.Context, img Image) (string, error) {
	switch {
	case img.URI != "":
		return img.URI, nil
	case img.Path != "":
		cid, err := s.uploader.UploadFile(ctx, img.Path)
		if err != nil {
			return "", err
		}
		return uploader.URI(cid), nil
	case len(img.Data) > 0:
		cid, err := s.uploader.UploadBytes(ctx, img.Data, "image/png")
		if err != nil {
			return "", err
		}
		return uploader.URI(cid), nil
	default:
		return "", ErrNoImage
	}
}

// uploadItemMetadata 上传单个 NFT 的链下元数据，返回其 URI。
// 链下对象的 name/symbol/description 取 collection 级别的描述，
// attributes 是该 NFT 自己的。
func (s *Service) uploadItemMetadata(ctx context.Context, args MintArgs) (string, error) {
	image, err := s.resolveImage(ctx, args.Image)
	if err != nil {
		return "", err
	}
	creators := make([]uploader.CreatorShare, 0, len(args.Creators))
	for _, c := range args.Creators {
		creators = append(creators, uploader.CreatorShare{
			Address:  c.Address.ToBase58(),
			Verified: c.Verified,
			Share:    c.Share,
		})
	}
	meta := &uploader.Metadata{
		Name:                 args.Collection.Name,
		Symbol:               args.Collection.Symbol,
		Description:          args.Collection.Description,
		SellerFeeBasisPoints: args.Collection.SellerFeeBasisPoints,
		Image:                image,
		ExternalURL:          args.Collection.ExternalURL,
		Attributes:           args.Attributes,
		Properties: uploader.Properties{
			Category: "image",
			Files:    []uploader.File{{URI: image, Type: "image/png"}},
			Creators: creators,
		},
	}
	cid, err := s.uploader.UploadJSON(ctx, meta)
	if err != nil {
		return "", fmt.Errorf("upload item metadata: %w", err)
	}
	uri := uploader.URI(cid)
	logger.Infof("NFT 元数据已上传: %s", uri)
	return uri, nil
}

// mintParams 组合器输入。payer 为空时权限方自己付费
func (s *Service) mintParams(args MintArgs, uri string, payer common.PublicKey) compose.MintParams {
	leafOwner := s.authority.PublicKey
	if args.MintTo != nil {
		leafOwner = *args.MintTo
	}
	return compose.MintParams{
		LeafOwner:           leafOwner,
		Payer:               payer,
		MerkleTree:          args.MerkleTree,
		CollectionMint:      args.Collection.Mint,
		CollectionAuthority: s.authority.PublicKey,
		Metadata: compose.NewMetadataArgs(
			args.Name,
			args.Collection.Symbol,
			uri,
			args.Collection.SellerFeeBasisPoints,
			args.Collection.Mint,
			args.Creators,
		),
	}
}

// MintResult 直接铸造的结果
type MintResult struct {
	Signature   string `json:"signature"`
	MetadataURI string `json:"metadataUri"`
}

// Mint 权限方自己付费并提交的直接铸造
func (s *Service) Mint(ctx context.Context, args MintArgs) (*MintResult, error) {
	uri, err := s.uploadItemMetadata(ctx, args)
	if err != nil {
		return nil, err
	}
	comp, err := s.composer.Compose(ctx, s.mintParams(args, uri, s.authority.PublicKey), nil, args.LutAddress)
	if err != nil {
		return nil, err
	}
	logger.Infof("组合完成: %s", comp)

	sig, err := assemble.SignAndSend(ctx, s.cli, s.authority, nil, comp.Instructions, comp.Tables)
	if err != nil {
		return nil, err
	}
	return &MintResult{Signature: sig, MetadataURI: uri}, nil
}

// DelegatedMint 委托付费铸造的产物：部分签名的交易信封，等外部费用方补签
type DelegatedMint struct {
	Transaction     string `json:"transaction"` // base64
	MetadataURI     string `json:"metadataUri"`
	EstimatedSize   int    `json:"estimatedSize"`
	RequiredSigners int    `json:"requiredSigners"`
	Fits            bool   `json:"fitsInOneTransaction"`
}

// MintDelegated 委托付费铸造：费用与（可选的）token 付款由外部 payer 承担，
// 这里只填权限方签名。体积建议只记录，不中断流程。
func (s *Service) MintDelegated(ctx context.Context, payer common.PublicKey, payment *compose.Payment, args MintArgs) (*DelegatedMint, error) {
	uri, err := s.uploadItemMetadata(ctx, args)
	if err != nil {
		return nil, err
	}
	comp, err := s.composer.Compose(ctx, s.mintParams(args, uri, payer), payment, args.LutAddress)
	if err != nil {
		return nil, err
	}

	fits := comp.FitsInOneTransaction()
	if !fits {
		logger.Warnf("交易可能超出体积上限: %s", comp)
	} else {
		logger.Infof("组合完成: %s", comp)
	}

	latest, err := s.cli.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch latest blockhash: %w", err)
	}
	blob, err := assemble.Assemble(assemble.Params{
		Instructions:    comp.Instructions,
		FeePayer:        payer,
		Tables:          comp.Tables,
		RecentBlockhash: latest.Blockhash,
		Authority:       s.authority,
	})
	if err != nil {
		return nil, err
	}

	return &DelegatedMint{
		Transaction:     blob,
		MetadataURI:     uri,
		EstimatedSize:   comp.EstimateSize(),
		RequiredSigners: comp.RequiredSigners(),
		Fits:            fits,
	}, nil
}

// Complete 费用方补签并提交委托铸造产物
func (s *Service) Complete(ctx context.Context, blob string, feePayer types.Account) (string, error) {
	tx, err := assemble.Complete(blob, feePayer)
	if err != nil {
		return "", err
	}
	sig, err := s.cli.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	logger.Infof("交易已提交: %s", sig)
	return sig, nil
}
