package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"cnft-cli/internal/das"
	"cnft-cli/internal/logic/cnft"
	"cnft-cli/internal/logic/collection"
	"cnft-cli/internal/logic/compose"
	"cnft-cli/internal/logic/lut"
	"cnft-cli/internal/logic/tree"
	"cnft-cli/internal/svc"
	"cnft-cli/internal/tools"
	"cnft-cli/internal/uploader"
	"cnft-cli/internal/wallet"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/mr-tron/base58"
	"github.com/urfave/cli"
)

func commands() []cli.Command {
	return []cli.Command{
		{
			Name:  "create-lut",
			Usage: "create an address lookup table preloaded with cNFT program addresses",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "empty",
					Usage: " create the table without preset addresses",
				},
			},
			Action: runCreateLut,
		},
		{
			Name:  "extend-lut",
			Usage: "append addresses to an existing lookup table",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "table, t",
					Usage: "+lookup table `ADDRESS`",
				},
				cli.Uint64Flag{
					Name:  "slot, s",
					Usage: "+recent `SLOT` the table was created at (derives the address)",
				},
				cli.StringFlag{
					Name:  "addresses, a",
					Usage: "*comma separated `ADDRESSES` to append",
				},
			},
			Action: runExtendLut,
		},
		{
			Name:  "create-collection",
			Usage: "create a collection NFT (uploads image and metadata)",
			Flags: append(collectionFlags(),
				cli.StringFlag{
					Name:  "image, i",
					Usage: "*collection image `FILE`",
				},
				cli.StringFlag{
					Name:  "lut",
					Usage: " lookup table `ADDRESS` to extend with the new mint",
				},
			),
			Action: runCreateCollection,
		},
		{
			Name:  "create-tree",
			Usage: "allocate and initialize a bubblegum merkle tree",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "depth, d",
					Value: tree.DefaultMaxDepth,
					Usage: " max tree `DEPTH`",
				},
				cli.UintFlag{
					Name:  "buffer, b",
					Value: tree.DefaultMaxBufferSize,
					Usage: " max buffer `SIZE`",
				},
				cli.StringFlag{
					Name:  "lut",
					Usage: " lookup table `ADDRESS` to extend with the new tree",
				},
			},
			Action: runCreateTree,
		},
		{
			Name:   "create-nonce",
			Usage:  "create a durable nonce account",
			Action: runCreateNonce,
		},
		{
			Name:  "nonce-info",
			Usage: "show authority and current nonce of a nonce account",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Usage: "*nonce account `ADDRESS`",
				},
			},
			Action: runNonceInfo,
		},
		{
			Name:   "mint",
			Usage:  "mint a compressed NFT into a collection (authority pays)",
			Flags:  mintFlags(),
			Action: runMint,
		},
		{
			Name:  "mint-delegated",
			Usage: "build a partially signed mint transaction for an external fee payer",
			Flags: append(mintFlags(),
				cli.StringFlag{
					Name:  "payer",
					Usage: "*fee payer `ADDRESS` (signs later)",
				},
				cli.StringFlag{
					Name:  "pay-mint",
					Usage: " token payment mint `ADDRESS`",
				},
				cli.StringFlag{
					Name:  "pay-to",
					Usage: " token payment recipient wallet `ADDRESS`",
				},
				cli.Float64Flag{
					Name:  "pay-amount",
					Usage: " token payment `AMOUNT` in UI units",
				},
				cli.UintFlag{
					Name:  "pay-decimals",
					Usage: " token payment mint `DECIMALS`",
				},
			),
			Action: runMintDelegated,
		},
		{
			Name:  "complete",
			Usage: "countersign a delegated mint transaction and submit it",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "tx",
					Usage: "+base64 `TRANSACTION`",
				},
				cli.StringFlag{
					Name:  "tx-file",
					Usage: "+`FILE` containing the base64 transaction",
				},
				cli.StringFlag{
					Name:  "payer-keypair, k",
					Usage: "*fee payer keypair `FILE`",
				},
			},
			Action: runComplete,
		},
		{
			Name:  "update",
			Usage: "update name and/or uri of a compressed NFT",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "asset, a",
					Usage: "*asset `ID`",
				},
				cli.StringFlag{
					Name:  "name, n",
					Usage: "+new `NAME`",
				},
				cli.StringFlag{
					Name:  "uri, u",
					Usage: "+new metadata `URI`",
				},
				cli.StringFlag{
					Name:  "lut",
					Usage: " lookup table `ADDRESS` for the update transaction",
				},
			},
			Action: runUpdate,
		},
		{
			Name:  "fetch",
			Usage: "fetch a single asset by id or by tree and leaf index",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "asset, a",
					Usage: "+asset `ID`",
				},
				cli.StringFlag{
					Name:  "tree, t",
					Usage: "+merkle tree `ADDRESS`",
				},
				cli.Uint64Flag{
					Name:  "leaf, l",
					Usage: "+leaf `INDEX` within the tree",
				},
				cli.BoolFlag{
					Name:  "proof",
					Usage: " also fetch the merkle proof",
				},
			},
			Action: runFetch,
		},
		{
			Name:  "fetch-assets",
			Usage: "fetch all assets of an owner or a collection",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Usage: "+owner `ADDRESS`",
				},
				cli.StringFlag{
					Name:  "collection, c",
					Usage: "+collection `ADDRESS`",
				},
				cli.BoolTFlag{
					Name:  "paginate",
					Usage: " walk all pages (default true)",
				},
			},
			Action: runFetchAssets,
		},
		{
			Name:  "search",
			Usage: "search assets by owner and/or collection",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Usage: "+owner `ADDRESS`",
				},
				cli.StringFlag{
					Name:  "collection, c",
					Usage: "+collection `ADDRESS`",
				},
				cli.BoolTFlag{
					Name:  "compressed",
					Usage: " only compressed assets (default true)",
				},
				cli.BoolTFlag{
					Name:  "paginate",
					Usage: " walk all pages (default true)",
				},
			},
			Action: runSearch,
		},
		{
			Name:  "signatures",
			Usage: "list transaction signatures of an asset",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "asset, a",
					Usage: "*asset `ID`",
				},
				cli.BoolTFlag{
					Name:  "paginate",
					Usage: " walk all pages (default true)",
				},
			},
			Action: runSignatures,
		},
	}
}

// collectionFlags collection 描述信息，create-collection 与 mint 共用
func collectionFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "name, n",
			Usage: "*collection `NAME`",
		},
		cli.StringFlag{
			Name:  "symbol, s",
			Usage: "*collection `SYMBOL`",
		},
		cli.StringFlag{
			Name:  "description, d",
			Usage: " collection `DESCRIPTION`",
		},
		cli.UintFlag{
			Name:  "royalty-bps",
			Usage: " seller fee `BASIS_POINTS`",
		},
		cli.StringFlag{
			Name:  "external-url",
			Usage: " external `URL`",
		},
	}
}

func mintFlags() []cli.Flag {
	return append(collectionFlags(),
		cli.StringFlag{
			Name:  "nft-name",
			Usage: "*on-chain `NAME` of the minted NFT",
		},
		cli.StringFlag{
			Name:  "image, i",
			Usage: "+image `FILE` to upload",
		},
		cli.StringFlag{
			Name:  "image-uri",
			Usage: "+already hosted image `URI`",
		},
		cli.StringFlag{
			Name:  "attributes",
			Usage: " trait list `K=V,K=V`",
		},
		cli.StringFlag{
			Name:  "creators",
			Usage: " creator list `ADDR:SHARE,ADDR:SHARE` (shares sum to 100)",
		},
		cli.StringFlag{
			Name:  "mint-to",
			Usage: " leaf owner `ADDRESS` (default: authority)",
		},
		cli.StringFlag{
			Name:  "tree, t",
			Usage: "*merkle tree `ADDRESS`",
		},
		cli.StringFlag{
			Name:  "collection, c",
			Usage: "*collection mint `ADDRESS`",
		},
		cli.StringFlag{
			Name:  "lut",
			Usage: " lookup table `ADDRESS` to compress the transaction with",
		},
	)
}

// parsePubkey 校验并解析 base58 地址
func parsePubkey(s, flag string) (common.PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != 32 {
		return common.PublicKey{}, fmt.Errorf("invalid address for --%s: %q", flag, s)
	}
	return common.PublicKeyFromBytes(raw), nil
}

// optionalPubkey 空串返回 nil
func optionalPubkey(s, flag string) (*common.PublicKey, error) {
	if s == "" {
		return nil, nil
	}
	pk, err := parsePubkey(s, flag)
	if err != nil {
		return nil, err
	}
	return &pk, nil
}

func parseAddressList(s string) ([]common.PublicKey, error) {
	parts := strings.Split(s, ",")
	out := make([]common.PublicKey, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pk, err := parsePubkey(p, "addresses")
		if err != nil {
			return nil, err
		}
		out = append(out, pk)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one address is required")
	}
	return out, nil
}

// parseCreators "ADDR:SHARE,ADDR:SHARE" 形式的创作者列表
func parseCreators(s string) ([]compose.Creator, error) {
	if s == "" {
		return nil, nil
	}
	var out []compose.Creator
	total := 0
	for _, pair := range strings.Split(s, ",") {
		addr, share, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("invalid creator entry %q, expected ADDR:SHARE", pair)
		}
		pk, err := parsePubkey(addr, "creators")
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(share)
		if err != nil || n < 0 || n > 100 {
			return nil, fmt.Errorf("invalid creator share %q", share)
		}
		total += n
		out = append(out, compose.Creator{Address: pk, Share: uint8(n)})
	}
	if total != 100 {
		return nil, fmt.Errorf("creator shares must sum to 100, got %d", total)
	}
	return out, nil
}

func parseAttributes(s string) []uploader.Attribute {
	if s == "" {
		return nil
	}
	var out []uploader.Attribute
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out = append(out, uploader.Attribute{
			TraitType: strings.TrimSpace(k),
			Value:     strings.TrimSpace(v),
		})
	}
	return out
}

func requireString(c *cli.Context, flag string) (string, error) {
	v := c.String(flag)
	if v == "" {
		return "", fmt.Errorf("--%s is required", flag)
	}
	return v, nil
}

func runCreateLut(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	if err := s.RequireAuthority(); err != nil {
		return err
	}
	ctx := context.Background()

	var result *lut.CreateResult
	if c.Bool("empty") {
		result, err = s.Luts.Create(ctx, s.Authority, nil)
	} else {
		result, err = s.Luts.CreateCnft(ctx, s.Authority)
	}
	if err != nil {
		return err
	}
	if err := s.Out.WriteJSON("create-lut", result); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "lookup table: %s (slot %d)\n", result.Address, result.Slot)
	return nil
}

func runExtendLut(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	if err := s.RequireAuthority(); err != nil {
		return err
	}
	raw, err := requireString(c, "addresses")
	if err != nil {
		return err
	}
	addresses, err := parseAddressList(raw)
	if err != nil {
		return err
	}
	table, err := optionalPubkey(c.String("table"), "table")
	if err != nil {
		return err
	}
	var slot *uint64
	if c.IsSet("slot") {
		v := c.Uint64("slot")
		slot = &v
	}

	result, err := s.Luts.Extend(context.Background(), s.Authority, lut.ExtendParam{
		Table:     table,
		Slot:      slot,
		Addresses: addresses,
	})
	if err != nil {
		return err
	}
	if err := s.Out.WriteJSON("extend-lut", result); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "lookup table extended: %s\n", result.Address)
	return nil
}

func runCreateCollection(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	if err := s.RequireAuthority(); err != nil {
		return err
	}
	if err := s.RequireUploader(); err != nil {
		return err
	}
	name, err := requireString(c, "name")
	if err != nil {
		return err
	}
	symbol, err := requireString(c, "symbol")
	if err != nil {
		return err
	}
	image, err := requireString(c, "image")
	if err != nil {
		return err
	}
	lutAddr, err := optionalPubkey(c.String("lut"), "lut")
	if err != nil {
		return err
	}

	result, err := s.Collections.Create(context.Background(), s.Authority, collection.CreateParam{
		Name:                 name,
		Symbol:               symbol,
		Description:          c.String("description"),
		SellerFeeBasisPoints: uint16(c.Uint("royalty-bps")),
		ExternalURL:          c.String("external-url"),
		ImagePath:            image,
		LutAddress:           lutAddr,
	})
	if err != nil {
		return err
	}
	if err := s.Out.WriteJSON("create-collection", result); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "collection mint: %s\n", result.CollectionMint)
	return nil
}

func runCreateTree(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	if err := s.RequireAuthority(); err != nil {
		return err
	}
	ctx := context.Background()

	result, err := s.Trees.Create(ctx, s.Authority, tree.CreateParam{
		MaxDepth:      uint32(c.Uint("depth")),
		MaxBufferSize: uint32(c.Uint("buffer")),
	})
	if err != nil {
		return err
	}
	if lutAddr, err := optionalPubkey(c.String("lut"), "lut"); err != nil {
		return err
	} else if lutAddr != nil {
		treePk, err := parsePubkey(result.MerkleTree, "tree")
		if err != nil {
			return err
		}
		if _, err := s.Luts.Extend(ctx, s.Authority, lut.ExtendParam{
			Table:     lutAddr,
			Addresses: []common.PublicKey{treePk},
		}); err != nil {
			return err
		}
	}
	if err := s.Out.WriteJSON("create-tree", result); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "merkle tree: %s\n", result.MerkleTree)
	return nil
}

func runCreateNonce(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	if err := s.RequireAuthority(); err != nil {
		return err
	}
	result, err := s.Nonces.Create(context.Background(), s.Authority)
	if err != nil {
		return err
	}
	if err := s.Out.WriteJSON("create-nonce", result); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "nonce account: %s\n", result.NonceAccount)
	return nil
}

func runNonceInfo(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	raw, err := requireString(c, "account")
	if err != nil {
		return err
	}
	account, err := parsePubkey(raw, "account")
	if err != nil {
		return err
	}
	info, err := s.Nonces.Fetch(context.Background(), account)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "authority: %s\nnonce: %s\n", info.Authority, info.Nonce)
	return nil
}

// mintArgsFromFlags 铸造参数的公共解析
func mintArgsFromFlags(c *cli.Context) (cnft.MintArgs, error) {
	var args cnft.MintArgs

	name, err := requireString(c, "nft-name")
	if err != nil {
		return args, err
	}
	treeRaw, err := requireString(c, "tree")
	if err != nil {
		return args, err
	}
	treePk, err := parsePubkey(treeRaw, "tree")
	if err != nil {
		return args, err
	}
	collRaw, err := requireString(c, "collection")
	if err != nil {
		return args, err
	}
	collPk, err := parsePubkey(collRaw, "collection")
	if err != nil {
		return args, err
	}
	mintTo, err := optionalPubkey(c.String("mint-to"), "mint-to")
	if err != nil {
		return args, err
	}
	lutAddr, err := optionalPubkey(c.String("lut"), "lut")
	if err != nil {
		return args, err
	}

	creators, err := parseCreators(c.String("creators"))
	if err != nil {
		return args, err
	}

	return cnft.MintArgs{
		Name: name,
		Image: cnft.Image{
			URI:  c.String("image-uri"),
			Path: c.String("image"),
		},
		Attributes: parseAttributes(c.String("attributes")),
		Creators:   creators,
		MintTo:     mintTo,
		MerkleTree: treePk,
		Collection: cnft.CollectionInfo{
			Mint:                 collPk,
			Name:                 c.String("name"),
			Symbol:               c.String("symbol"),
			Description:          c.String("description"),
			SellerFeeBasisPoints: uint16(c.Uint("royalty-bps")),
			ExternalURL:          c.String("external-url"),
		},
		LutAddress: lutAddr,
	}, nil
}

func runMint(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	if err := s.RequireAuthority(); err != nil {
		return err
	}
	if err := s.RequireUploader(); err != nil {
		return err
	}
	args, err := mintArgsFromFlags(c)
	if err != nil {
		return err
	}
	result, err := s.Cnft.Mint(context.Background(), args)
	if err != nil {
		return err
	}
	if err := s.Out.WriteJSON("mint", result); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "minted: %s\n", result.Signature)
	return nil
}

func runMintDelegated(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	if err := s.RequireAuthority(); err != nil {
		return err
	}
	if err := s.RequireUploader(); err != nil {
		return err
	}
	args, err := mintArgsFromFlags(c)
	if err != nil {
		return err
	}
	payerRaw, err := requireString(c, "payer")
	if err != nil {
		return err
	}
	payer, err := parsePubkey(payerRaw, "payer")
	if err != nil {
		return err
	}

	var payment *compose.Payment
	if c.String("pay-mint") != "" {
		payMint, err := parsePubkey(c.String("pay-mint"), "pay-mint")
		if err != nil {
			return err
		}
		payToRaw, err := requireString(c, "pay-to")
		if err != nil {
			return err
		}
		payTo, err := parsePubkey(payToRaw, "pay-to")
		if err != nil {
			return err
		}
		decimals := uint8(c.Uint("pay-decimals"))
		if !c.IsSet("pay-decimals") {
			// 未显式给出时从链上 mint 读取
			supply, err := s.Rpc.GetTokenSupply(context.Background(), payMint.ToBase58())
			if err != nil {
				return fmt.Errorf("fetch decimals of %s: %w", payMint.ToBase58(), err)
			}
			decimals = supply.Decimals
		}
		payment = &compose.Payment{
			From:     payer,
			To:       payTo,
			Mint:     payMint,
			Amount:   tools.UiToNative(c.Float64("pay-amount"), decimals),
			Decimals: decimals,
		}
	}

	result, err := s.Cnft.MintDelegated(context.Background(), payer, payment, args)
	if err != nil {
		return err
	}
	if err := s.Out.WriteJSON("mint-delegated", result); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "transaction (base64, fee payer signs next):\n%s\n", result.Transaction)
	if !result.Fits {
		fmt.Fprintf(c.App.ErrWriter, "warning: estimated size %d bytes with %d signers may exceed the packet limit\n",
			result.EstimatedSize, result.RequiredSigners)
	}
	return nil
}

func runComplete(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	blob := c.String("tx")
	if blob == "" {
		path, err := requireString(c, "tx-file")
		if err != nil {
			return fmt.Errorf("either --tx or --tx-file is required")
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		blob = strings.TrimSpace(string(raw))
	}
	keypairPath, err := requireString(c, "payer-keypair")
	if err != nil {
		return err
	}
	payer, err := wallet.Load(keypairPath)
	if err != nil {
		return err
	}

	sig, err := s.Cnft.Complete(context.Background(), blob, payer)
	if err != nil {
		return err
	}
	if err := s.Out.WriteJSON("complete", map[string]string{"signature": sig}); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "submitted: %s\n", sig)
	return nil
}

func runUpdate(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	if err := s.RequireAuthority(); err != nil {
		return err
	}
	assetID, err := requireString(c, "asset")
	if err != nil {
		return err
	}
	lutAddr, err := optionalPubkey(c.String("lut"), "lut")
	if err != nil {
		return err
	}
	args := cnft.UpdateArgs{AssetID: assetID, LutAddress: lutAddr}
	if v := c.String("name"); v != "" {
		args.Name = &v
	}
	if v := c.String("uri"); v != "" {
		args.URI = &v
	}
	if args.Name == nil && args.URI == nil {
		return fmt.Errorf("nothing to update: pass --name and/or --uri")
	}

	result, err := s.Cnft.Update(context.Background(), args)
	if err != nil {
		return err
	}
	if err := s.Out.WriteJSON("update", result); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "updated: %s\n", result.Signature)
	return nil
}

func runFetch(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	ctx := context.Background()

	assetID := c.String("asset")
	if assetID == "" {
		treeRaw, err := requireString(c, "tree")
		if err != nil {
			return fmt.Errorf("either --asset or --tree with --leaf is required")
		}
		treePk, err := parsePubkey(treeRaw, "tree")
		if err != nil {
			return err
		}
		id, err := das.DeriveAssetID(treePk, c.Uint64("leaf"))
		if err != nil {
			return err
		}
		assetID = id.ToBase58()
	}

	if c.Bool("proof") {
		result, err := s.Das.GetAssetWithProof(ctx, assetID)
		if err != nil {
			return err
		}
		return writeAndPrint(c, s, "fetch", result)
	}
	asset, err := s.Das.GetAsset(ctx, assetID)
	if err != nil {
		return err
	}
	return writeAndPrint(c, s, "fetch", asset)
}

func runFetchAssets(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	ctx := context.Background()
	paginate := c.BoolT("paginate")

	var assets []das.Asset
	switch {
	case c.String("owner") != "":
		assets, err = s.Das.GetAssetsByOwner(ctx, c.String("owner"), paginate)
	case c.String("collection") != "":
		assets, err = s.Das.GetAssetsByGroup(ctx, c.String("collection"), paginate)
	default:
		return fmt.Errorf("either --owner or --collection is required")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d assets\n", len(assets))
	return s.Out.WriteJSON("fetch-assets", assets)
}

func runSearch(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	assets, err := s.Das.SearchAssets(context.Background(), das.SearchFilter{
		Owner:      c.String("owner"),
		Collection: c.String("collection"),
		Compressed: c.BoolT("compressed"),
	}, c.BoolT("paginate"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d assets\n", len(assets))
	return s.Out.WriteJSON("search", assets)
}

func runSignatures(c *cli.Context) error {
	s, err := loadContext(c)
	if err != nil {
		return err
	}
	assetID, err := requireString(c, "asset")
	if err != nil {
		return err
	}
	sigs, err := s.Das.GetSignaturesForAsset(context.Background(), assetID, c.BoolT("paginate"))
	if err != nil {
		return err
	}
	for _, sig := range sigs {
		fmt.Fprintln(c.App.Writer, strings.Join(sig, "  "))
	}
	return s.Out.WriteJSON("signatures", sigs)
}

// writeAndPrint 结果同时打到终端和结果目录
func writeAndPrint(c *cli.Context, s *svc.ServiceContext, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return s.Out.WriteJSON(name, v)
}
