package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// JitterMode 抖动模式
type JitterMode int

const (
	// JitterNone 不加抖动，直接使用计算出的退避时长
	JitterNone JitterMode = iota
	// JitterFull 完全抖动：在 [0, 计算时长] 内均匀取随机值
	JitterFull
)

// Policy 退避重试策略。仅适用于幂等的读操作，写路径不得使用。
type Policy struct {
	InitialDelay time.Duration // 初始退避时长
	MaxDelay     time.Duration // 退避时长上限
	Multiplier   float64       // 每次失败后的增长倍数
	MaxAttempts  int           // 最大尝试次数（含首次）
	Jitter       JitterMode    // 抖动模式
}

// DefaultPolicy 分页拉取使用的默认策略：上限 10s，初始为上限的 1/10，倍数 2，共 5 次，完全抖动
func DefaultPolicy() Policy {
	return Policy{
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
		MaxAttempts:  5,
		Jitter:       JitterFull,
	}
}

// Backoff 返回第 attempt 次失败后的退避时长上限（未加抖动），attempt 从 0 开始
func (p Policy) Backoff(attempt int) time.Duration {
	d := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt))
	if m := float64(p.MaxDelay); d > m {
		d = m
	}
	if d < 0 {
		return 0
	}
	return time.Duration(d)
}

// Delay 在 Backoff 的基础上按抖动模式取值
func (p Policy) Delay(attempt int) time.Duration {
	d := p.Backoff(attempt)
	if p.Jitter == JitterFull && d > 0 {
		d = time.Duration(rand.Int63n(int64(d) + 1))
	}
	return d
}

// permanentError 标记不可重试的错误
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent 包装 err，使 Do 遇到时立即返回而不再重试。
// 适用于鉴权失败、参数错误等重试无意义的场景。
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// ExhaustedError 表示重试次数耗尽，Last 为最后一次的底层错误
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Do 按策略执行 op：失败则退避后重试，MaxAttempts 次连续失败后返回 ExhaustedError。
// ctx 取消会中断退避等待并立即返回。
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var last error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, p.Delay(attempt-1)); err != nil {
				return zero, err
			}
		}
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}
		last = err
	}
	return zero, &ExhaustedError{Attempts: attempts, Last: last}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
