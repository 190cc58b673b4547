package assemble

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"cnft-cli/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

var (
	// ErrNoInstructions 指令列表为空，无法编译消息
	ErrNoInstructions = errors.New("assemble: no instructions")
	// ErrNoBlockhash 缺少新鲜 blockhash，编译阶段不可跳过
	ErrNoBlockhash = errors.New("assemble: recent blockhash not set")
)

// Params 两段式签名的组装输入。Authority 是服务持有的权限密钥，
// 与费用支付方不同：组装只填权限方签名，费用方签名槽留空。
type Params struct {
	Instructions    []types.Instruction
	FeePayer        common.PublicKey
	Tables          []types.AddressLookupTableAccount
	RecentBlockhash string
	Authority       types.Account
}

// Assemble 把指令编译成 v0 消息，填入权限方部分签名后序列化为 base64。
// 产物交由费用支付方补签并提交，本函数不做提交，也不做任何重试。
func Assemble(p Params) (string, error) {
	if len(p.Instructions) == 0 {
		return "", ErrNoInstructions
	}
	if p.RecentBlockhash == "" {
		return "", ErrNoBlockhash
	}

	message := types.NewMessage(types.NewMessageParam{
		FeePayer:                   p.FeePayer,
		Instructions:               p.Instructions,
		RecentBlockhash:            p.RecentBlockhash,
		AddressLookupTableAccounts: p.Tables,
	})

	// 只带权限方签名；其余必需签名槽保持零值，等待外部补齐
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: message,
		Signers: []types.Account{p.Authority},
	})
	if err != nil {
		return "", fmt.Errorf("assemble: build transaction: %w", err)
	}

	raw, err := tx.Serialize()
	if err != nil {
		return "", fmt.Errorf("assemble: serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Complete 对端补签：反序列化 base64 产物，补上签名者的签名并返回完整交易
func Complete(blob string, signer types.Account) (types.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return types.Transaction{}, fmt.Errorf("assemble: decode blob: %w", err)
	}
	tx, err := types.TransactionDeserialize(raw)
	if err != nil {
		return types.Transaction{}, fmt.Errorf("assemble: deserialize transaction: %w", err)
	}
	messageData, err := tx.Message.Serialize()
	if err != nil {
		return types.Transaction{}, fmt.Errorf("assemble: serialize message: %w", err)
	}
	if err := tx.AddSignature(signer.Sign(messageData)); err != nil {
		return types.Transaction{}, fmt.Errorf("assemble: add signature: %w", err)
	}
	return tx, nil
}

// SignAndSend 单方全签路径：取最新 blockhash，编译并由给定签名者签名后直接提交。
// 用于 LUT / collection / 树 等管理操作，不适用两段式交接。
func SignAndSend(ctx context.Context, cli *client.Client, feePayer types.Account, extraSigners []types.Account, instructions []types.Instruction, tables []types.AddressLookupTableAccount) (string, error) {
	if len(instructions) == 0 {
		return "", ErrNoInstructions
	}
	latest, err := cli.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch latest blockhash: %w", err)
	}

	message := types.NewMessage(types.NewMessageParam{
		FeePayer:                   feePayer.PublicKey,
		Instructions:               instructions,
		RecentBlockhash:            latest.Blockhash,
		AddressLookupTableAccounts: tables,
	})
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: message,
		Signers: append([]types.Account{feePayer}, extraSigners...),
	})
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}

	sig, err := cli.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	logger.Infof("交易已提交: %s", sig)
	return sig, nil
}
