package das

import (
	"context"
	"errors"
	"testing"
	"time"

	"cnft-cli/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() retry.Policy {
	return retry.Policy{
		InitialDelay: time.Microsecond,
		MaxDelay:     10 * time.Microsecond,
		Multiplier:   2,
		MaxAttempts:  5,
		Jitter:       retry.JitterFull,
	}
}

// 构造一个共 total 条、每页最多 limit 条的数据源
func pagedSource(total int, calls *[]int) PageFunc[int] {
	return func(ctx context.Context, page, limit int) ([]int, error) {
		*calls = append(*calls, page)
		start := (page - 1) * limit
		if start >= total {
			return nil, nil
		}
		end := start + limit
		if end > total {
			end = total
		}
		items := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			items = append(items, i)
		}
		return items, nil
	}
}

// 前 k-1 页满页、第 k 页短页时，恰好发 k 次请求并按页序拼接全部条目
func TestFetchAll_TerminatesOnShortPage(t *testing.T) {
	var calls []int
	// 2 页满页 + 1 页 5 条
	items, err := FetchAll(context.Background(), testPolicy(), pagedSource(25, &calls), true, 10)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, calls, "应该恰好请求 3 页")
	require.Len(t, items, 25)
	for i, v := range items {
		assert.Equal(t, i, v, "条目应保持页内顺序并按页号升序拼接")
	}
}

// 总数恰为页大小整数倍时，需要多拉一页空页才能确认读完
func TestFetchAll_ExactMultiple(t *testing.T) {
	var calls []int
	items, err := FetchAll(context.Background(), testPolicy(), pagedSource(20, &calls), true, 10)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, calls)
	assert.Len(t, items, 20)
}

// paginate=false 时只发一次请求，limit 传页大小上限
func TestFetchAll_NoPagination(t *testing.T) {
	var gotPage, gotLimit, calls int
	fn := func(ctx context.Context, page, limit int) ([]int, error) {
		calls++
		gotPage, gotLimit = page, limit
		return []int{1, 2, 3}, nil
	}

	items, err := FetchAll(context.Background(), testPolicy(), fn, false, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "不分页时只应请求一次")
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 1000, gotLimit)
	assert.Equal(t, []int{1, 2, 3}, items)
}

// 某页重试耗尽时返回错误，已累积的部分结果丢弃
func TestFetchAll_RetryExhaustedDiscardsPartial(t *testing.T) {
	boom := errors.New("rate limited")
	attempts := 0
	fn := func(ctx context.Context, page, limit int) ([]int, error) {
		if page == 1 {
			items := make([]int, limit)
			return items, nil
		}
		attempts++
		return nil, boom
	}

	items, err := FetchAll(context.Background(), testPolicy(), fn, true, 10)
	assert.Nil(t, items, "失败时不应返回部分结果")

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, attempts, "第 2 页应重试满 5 次")
}

// 页内瞬时失败经重试后继续推进，不影响最终结果
func TestFetchAll_TransientFailureRecovered(t *testing.T) {
	var calls []int
	failedOnce := false
	base := pagedSource(15, &calls)
	fn := func(ctx context.Context, page, limit int) ([]int, error) {
		if page == 2 && !failedOnce {
			failedOnce = true
			return nil, errors.New("transient")
		}
		return base(ctx, page, limit)
	}

	items, err := FetchAll(context.Background(), testPolicy(), fn, true, 10)
	require.NoError(t, err)
	assert.Len(t, items, 15)
}

// 永远返回满页的源：fetcher 本身没有死循环保护，由测试侧的页数上限兜底确认该边界
func TestFetchAll_UnboundedSourceNeedsCallerGuard(t *testing.T) {
	const maxPages = 50
	pages := 0
	guard := errors.New("page guard tripped")
	fn := func(ctx context.Context, page, limit int) ([]int, error) {
		pages++
		if pages > maxPages {
			return nil, guard
		}
		return make([]int, limit), nil
	}

	_, err := FetchAll(context.Background(), testPolicy(), fn, true, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, guard, "只有测试侧的兜底才能终止永不短页的源")
	assert.Greater(t, pages, maxPages)
}
