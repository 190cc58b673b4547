package wallet

import (
	"encoding/json"
	"fmt"
	"os"

	"cnft-cli/pkg/logger"

	"github.com/blocto/solana-go-sdk/types"
)

// Load 从 JSON 字节数组文件加载钱包（solana-keygen 输出格式）
func Load(path string) (types.Account, error) {
	if path == "" {
		return types.Account{}, fmt.Errorf("keypair path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Account{}, fmt.Errorf("read keypair file %s: %w", path, err)
	}
	return FromJSON(raw)
}

// FromJSON 解析 JSON 字节数组形式的私钥
func FromJSON(raw []byte) (types.Account, error) {
	// json 不支持把数字数组直接解到 []byte，先走 []int
	var nums []int
	if err := json.Unmarshal(raw, &nums); err != nil {
		return types.Account{}, fmt.Errorf("parse keypair json: %w", err)
	}
	key := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return types.Account{}, fmt.Errorf("invalid keypair byte at %d: %d", i, n)
		}
		key[i] = byte(n)
	}
	acc, err := types.AccountFromBytes(key)
	if err != nil {
		return types.Account{}, fmt.Errorf("build account from keypair: %w", err)
	}
	logger.Infof("已加载钱包: %s", acc.PublicKey.ToBase58())
	return acc, nil
}

// FromBase58 解析 base58 编码的私钥字符串
func FromBase58(secret string) (types.Account, error) {
	acc, err := types.AccountFromBase58(secret)
	if err != nil {
		return types.Account{}, fmt.Errorf("build account from base58 secret: %w", err)
	}
	return acc, nil
}
