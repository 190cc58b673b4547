package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试用策略：微秒级延迟，避免拖慢测试
func fastPolicy(attempts int) Policy {
	return Policy{
		InitialDelay: 10 * time.Microsecond,
		MaxDelay:     100 * time.Microsecond,
		Multiplier:   2,
		MaxAttempts:  attempts,
		Jitter:       JitterFull,
	}
}

// 测试全部失败时恰好执行 MaxAttempts 次，不会有第 6 次
func TestDo_ExhaustsAfterMaxAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	_, err := Do(context.Background(), fastPolicy(5), func(ctx context.Context) (int, error) {
		calls++
		return 0, boom
	})

	assert.Equal(t, 5, calls, "应该恰好尝试 5 次")

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 5, exhausted.Attempts)
	assert.ErrorIs(t, err, boom, "应能解包出最后一次的底层错误")
}

// 测试中途成功则立即返回结果
func TestDo_SucceedsMidway(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), fastPolicy(5), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls, "第 3 次成功后不应继续尝试")
}

// 测试退避上限与抖动范围：每次取值都落在 [0, min(MaxDelay, Initial*Multiplier^n)]
func TestPolicy_DelayWithinJitterRange(t *testing.T) {
	p := Policy{
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
		MaxAttempts:  5,
		Jitter:       JitterFull,
	}

	// 1s, 2s, 4s, 8s, 10s(封顶), 10s...
	expected := []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second,
		8 * time.Second, 10 * time.Second, 10 * time.Second,
	}
	for attempt, want := range expected {
		assert.Equal(t, want, p.Backoff(attempt))
		for i := 0; i < 100; i++ {
			d := p.Delay(attempt)
			assert.GreaterOrEqual(t, d, time.Duration(0))
			assert.LessOrEqual(t, d, want, "抖动取值不应超过退避上限")
		}
	}
}

// 测试 JitterNone 直接返回退避上限
func TestPolicy_NoJitter(t *testing.T) {
	p := fastPolicy(3)
	p.Jitter = JitterNone
	assert.Equal(t, p.Backoff(1), p.Delay(1))
}

// Permanent 包装的错误直接返回，不再重试
func TestDo_PermanentStopsRetrying(t *testing.T) {
	calls := 0
	denied := errors.New("access denied")
	_, err := Do(context.Background(), fastPolicy(5), func(ctx context.Context) (int, error) {
		calls++
		return 0, Permanent(denied)
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, denied)
	var exhausted *ExhaustedError
	assert.False(t, errors.As(err, &exhausted), "不应包装成重试耗尽错误")
}

func TestPermanent_Nil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}

// 测试 ctx 取消会中断退避等待
func TestDo_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{
		InitialDelay: time.Hour, // 不抖动，保证会长时间等待
		MaxDelay:     time.Hour,
		Multiplier:   2,
		MaxAttempts:  3,
		Jitter:       JitterNone,
	}

	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, p, func(ctx context.Context) (int, error) {
			return 0, errors.New("always fail")
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("取消后应立即返回")
	}
}
