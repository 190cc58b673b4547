package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试从 solana-keygen 格式的 JSON 文件加载钱包
func TestLoad(t *testing.T) {
	acc := types.NewAccount()
	nums := make([]int, len(acc.PrivateKey))
	for i, b := range acc.PrivateKey {
		nums[i] = int(b)
	}
	raw, err := json.Marshal(nums)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey, loaded.PublicKey, "加载后的公钥应与原始钱包一致")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte(`{"not":"an array"}`))
	assert.Error(t, err)

	_, err = FromJSON([]byte(`[1,2,300]`))
	assert.Error(t, err, "超出字节范围的数字应报错")
}

// base58 私钥与字节数组私钥应得到同一个账户
func TestFromBase58(t *testing.T) {
	acc := types.NewAccount()
	loaded, err := FromBase58(base58.Encode(acc.PrivateKey))
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey, loaded.PublicKey)
}
