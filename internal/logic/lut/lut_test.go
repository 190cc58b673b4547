package lut

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 构造合法的表账户数据：56 字节头 + 32 字节地址序列
func buildTableData(authority common.PublicKey, addresses []common.PublicKey) []byte {
	data := make([]byte, tableHeaderLen, tableHeaderLen+32*len(addresses))
	binary.LittleEndian.PutUint32(data[0:4], 1)                      // discriminator
	binary.LittleEndian.PutUint64(data[4:12], ^uint64(0))            // deactivation_slot = u64::MAX（活跃）
	binary.LittleEndian.PutUint64(data[12:20], 12345)                // last_extended_slot
	data[20] = 0                                                     // start_index
	data[21] = 1                                                     // has_authority
	copy(data[22:54], authority.Bytes())
	for _, addr := range addresses {
		data = append(data, addr.Bytes()...)
	}
	return data
}

func key(seed byte) common.PublicKey {
	var pk common.PublicKey
	for i := range pk {
		pk[i] = seed
	}
	return pk
}

func TestParseTableData(t *testing.T) {
	addrs := []common.PublicKey{key(1), key(2), key(3)}
	parsed, err := ParseTableData(buildTableData(key(9), addrs))
	require.NoError(t, err)
	assert.Equal(t, addrs, parsed)
}

func TestParseTableData_EmptyTable(t *testing.T) {
	parsed, err := ParseTableData(buildTableData(key(9), nil))
	require.NoError(t, err)
	assert.Empty(t, parsed, "刚创建未扩展的表没有条目")
}

func TestParseTableData_Invalid(t *testing.T) {
	// 头部不完整
	_, err := ParseTableData(make([]byte, tableHeaderLen-1))
	assert.ErrorIs(t, err, ErrInvalidTableData)

	// discriminator 不是 1
	bad := buildTableData(key(9), []common.PublicKey{key(1)})
	binary.LittleEndian.PutUint32(bad[0:4], 2)
	_, err = ParseTableData(bad)
	assert.ErrorIs(t, err, ErrInvalidTableData)

	// 条目区不是 32 的倍数
	truncated := buildTableData(key(9), []common.PublicKey{key(1)})
	_, err = ParseTableData(truncated[:len(truncated)-5])
	assert.ErrorIs(t, err, ErrInvalidTableData)
}

func TestTable_ToSDK(t *testing.T) {
	table := &Table{Key: key(7), Addresses: []common.PublicKey{key(1), key(2)}}
	sdk := table.ToSDK()
	assert.Equal(t, table.Key, sdk.Key)
	assert.Equal(t, table.Addresses, sdk.Addresses)
}

// table 与 slot 都缺时 Extend 必须在发起任何 RPC 之前报错
func TestExtend_RequiresTableOrSlot(t *testing.T) {
	m := NewManager(nil)
	_, err := m.Extend(context.Background(), types.NewAccount(), ExtendParam{
		Addresses: []common.PublicKey{key(1)},
	})
	assert.Error(t, err)
}
