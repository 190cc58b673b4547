package config

import (
	"errors"
	"fmt"

	"cnft-cli/pkg/logger"
	"cnft-cli/pkg/retry"
	"time"
)

// ErrNotConfigured 表示缺少必需的配置项（凭证、密钥路径等），属于致命错误，不重试
var ErrNotConfigured = errors.New("not configured")

// LogConfig 日志配置
type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// RpcConfig 链上 RPC 与 DAS 读接口配置
type RpcConfig struct {
	Endpoint    string `yaml:"endpoint"`     // Solana RPC 地址
	DasEndpoint string `yaml:"das_endpoint"` // DAS 读接口地址，为空时复用 Endpoint
}

// StorageConfig nft.storage 上传配置
type StorageConfig struct {
	Endpoint string `yaml:"endpoint"` // 上传服务地址，默认 https://api.nft.storage
	Token    string `yaml:"token"`    // Bearer Token
}

// RetryConfig 分页读取的退避重试配置（单位：毫秒 / 次数）
type RetryConfig struct {
	MaxDelayMs  int `yaml:"max_delay_ms"`  // 退避上限，默认 10000
	MaxAttempts int `yaml:"max_attempts"`  // 最大尝试次数，默认 5
}

// ToPolicy 转换为退避策略；初始时长固定为上限的 1/10，完全抖动
func (c *RetryConfig) ToPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	if c.MaxDelayMs > 0 {
		p.MaxDelay = time.Duration(c.MaxDelayMs) * time.Millisecond
		p.InitialDelay = p.MaxDelay / 10
	}
	if c.MaxAttempts > 0 {
		p.MaxAttempts = c.MaxAttempts
	}
	return p
}

// Config 主配置结构体
type Config struct {
	LogConf     LogConfig     `yaml:"logger"`  // 日志配置
	RpcConf     RpcConfig     `yaml:"rpc"`     // RPC 配置
	StorageConf StorageConfig `yaml:"storage"` // 上传配置
	RetryConf   RetryConfig   `yaml:"retry"`   // 重试配置

	// 集合权限方密钥路径（JSON 字节数组文件）。代付费铸造时作为部分签名方。
	AuthorityKeypair string `yaml:"authority_keypair"`

	OutDir string `yaml:"out_dir"` // 结果 JSON 输出目录，默认 ./out
}

// DasEndpoint 返回 DAS 读接口地址，未配置时回退到 RPC 地址
func (c *Config) DasEndpoint() string {
	if c.RpcConf.DasEndpoint != "" {
		return c.RpcConf.DasEndpoint
	}
	return c.RpcConf.Endpoint
}

// Validate 校验通用必填项
func (c *Config) Validate() error {
	if c.RpcConf.Endpoint == "" {
		return fmt.Errorf("%w: rpc.endpoint", ErrNotConfigured)
	}
	return nil
}

// RequireUploader 上传路径的必填校验
func (c *Config) RequireUploader() error {
	if c.StorageConf.Token == "" {
		return fmt.Errorf("%w: storage.token", ErrNotConfigured)
	}
	return nil
}

// RequireAuthority 部分签名路径的必填校验
func (c *Config) RequireAuthority() error {
	if c.AuthorityKeypair == "" {
		return fmt.Errorf("%w: authority_keypair", ErrNotConfigured)
	}
	return nil
}
