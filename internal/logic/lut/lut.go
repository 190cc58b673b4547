package lut

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"cnft-cli/internal/consts"
	"cnft-cli/internal/logic/assemble"
	"cnft-cli/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/address_lookup_table"
	"github.com/blocto/solana-go-sdk/types"
)

var (
	// ErrTableNotFound 表账户不存在或尚未确认。组合指令时遇到该错误直接失败，
	// 不允许静默回退到未压缩地址。
	ErrTableNotFound = errors.New("lut: lookup table not found")
	// ErrInvalidTableData 表账户数据不符合布局
	ErrInvalidTableData = errors.New("lut: invalid lookup table data")
)

// Table 地址查找表：表地址 + 存储的地址序列（仅追加，本系统不移除条目）
type Table struct {
	Key       common.PublicKey
	Addresses []common.PublicKey
}

// ToSDK 转为消息编译所需的 SDK 结构
func (t *Table) ToSDK() types.AddressLookupTableAccount {
	return types.AddressLookupTableAccount{
		Key:       t.Key,
		Addresses: t.Addresses,
	}
}

// tableHeaderLen 表账户头部长度：
// u32 discriminator(=1) + u64 deactivation_slot + u64 last_extended_slot +
// u8 start_index + u8 has_authority + [32] authority + [2] padding
const tableHeaderLen = 56

// ParseTableData 解析表账户原始数据中的地址序列
func ParseTableData(data []byte) ([]common.PublicKey, error) {
	if len(data) < tableHeaderLen {
		return nil, ErrInvalidTableData
	}
	if binary.LittleEndian.Uint32(data[0:4]) != 1 {
		return nil, ErrInvalidTableData
	}
	if (len(data)-tableHeaderLen)%32 != 0 {
		return nil, ErrInvalidTableData
	}
	n := (len(data) - tableHeaderLen) / 32
	addresses := make([]common.PublicKey, 0, n)
	for off := tableHeaderLen; off < len(data); off += 32 {
		addresses = append(addresses, common.PublicKeyFromBytes(data[off:off+32]))
	}
	return addresses, nil
}

// Manager 表的创建 / 扩展 / 读取
type Manager struct {
	cli *client.Client
}

func NewManager(cli *client.Client) *Manager {
	return &Manager{cli: cli}
}

// ResolveTable 拉取并解析链上的表内容
func (m *Manager) ResolveTable(ctx context.Context, table common.PublicKey) (*Table, error) {
	info, err := m.cli.GetAccountInfo(ctx, table.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("fetch lookup table %s: %w", table.ToBase58(), err)
	}
	if len(info.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table.ToBase58())
	}
	addresses, err := ParseTableData(info.Data)
	if err != nil {
		return nil, fmt.Errorf("parse lookup table %s: %w", table.ToBase58(), err)
	}
	return &Table{Key: table, Addresses: addresses}, nil
}

// CreateResult 创建结果
type CreateResult struct {
	Address   string `json:"lutAddress"`
	Slot      uint64 `json:"slot"`
	Signature string `json:"signature"`
}

// Create 创建一张表；addresses 非空时在同一笔交易里完成首次扩展
func (m *Manager) Create(ctx context.Context, authority types.Account, addresses []common.PublicKey) (*CreateResult, error) {
	slot, err := m.cli.GetSlot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch recent slot: %w", err)
	}
	tableAddr, bump := address_lookup_table.DeriveLookupTableAddress(authority.PublicKey, slot)

	instructions := []types.Instruction{
		address_lookup_table.CreateLookupTable(address_lookup_table.CreateLookupTableParams{
			LookupTable: tableAddr,
			Authority:   authority.PublicKey,
			Payer:       authority.PublicKey,
			RecentSlot:  slot,
			BumpSeed:    bump,
		}),
	}
	if len(addresses) > 0 {
		instructions = append(instructions, address_lookup_table.ExtendLookupTable(address_lookup_table.ExtendLookupTableParams{
			LookupTable: tableAddr,
			Authority:   authority.PublicKey,
			Payer:       &authority.PublicKey,
			Addresses:   addresses,
		}))
	}

	sig, err := assemble.SignAndSend(ctx, m.cli, authority, nil, instructions, nil)
	if err != nil {
		return nil, err
	}
	logger.Infof("LUT 已创建: %s (slot=%d)", tableAddr.ToBase58(), slot)
	return &CreateResult{Address: tableAddr.ToBase58(), Slot: slot, Signature: sig}, nil
}

// CreateCnft 创建预置了压缩 NFT 常用程序地址的表
func (m *Manager) CreateCnft(ctx context.Context, authority types.Account) (*CreateResult, error) {
	return m.Create(ctx, authority, consts.CnftLutAddresses())
}

// ExtendParam 扩展表：table 与 slot 必须二选一；只给 slot 时按
// (authority, slot) 反推表地址
type ExtendParam struct {
	Table     *common.PublicKey
	Slot      *uint64
	Addresses []common.PublicKey
}

// ExtendResult 扩展结果
type ExtendResult struct {
	Address   string `json:"lutAddress"`
	Signature string `json:"signature"`
}

// Extend 向已有的表追加地址（仅追加，不支持删除）
func (m *Manager) Extend(ctx context.Context, authority types.Account, p ExtendParam) (*ExtendResult, error) {
	if p.Table == nil && p.Slot == nil {
		return nil, errors.New("lut: either table address or recent slot is required")
	}

	tableAddr := common.PublicKey{}
	if p.Table != nil {
		tableAddr = *p.Table
	} else {
		tableAddr, _ = address_lookup_table.DeriveLookupTableAddress(authority.PublicKey, *p.Slot)
	}

	ix := address_lookup_table.ExtendLookupTable(address_lookup_table.ExtendLookupTableParams{
		LookupTable: tableAddr,
		Authority:   authority.PublicKey,
		Payer:       &authority.PublicKey,
		Addresses:   p.Addresses,
	})
	sig, err := assemble.SignAndSend(ctx, m.cli, authority, nil, []types.Instruction{ix}, nil)
	if err != nil {
		return nil, err
	}
	logger.Infof("LUT 已扩展: %s (+%d 地址)", tableAddr.ToBase58(), len(p.Addresses))
	return &ExtendResult{Address: tableAddr.ToBase58(), Signature: sig}, nil
}
