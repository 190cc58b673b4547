package das

import (
	"context"

	"cnft-cli/pkg/retry"
)

// DefaultPageLimit 单页条目数上限
const DefaultPageLimit = 1000

// PageFunc 单页读取函数，page 从 1 开始
type PageFunc[T any] func(ctx context.Context, page, limit int) ([]T, error)

// FetchAll 驱动游标分页读取直到结束：
//   - paginate=false：只发一次请求（page=1, limit=pageLimit），结果按上限截断返回；
//   - paginate=true：逐页拉取，每页经退避重试，某页条目数 < pageLimit 即视为读完。
//
// 条目保持服务端页内顺序，页间按页号升序拼接。上游在翻页期间发生变更时
// 可能出现重复或缺失，这里不做去重；重试耗尽时丢弃已累积的部分结果。
// 对永不返回短页的源不设防，调用方需自行兜底。
func FetchAll[T any](ctx context.Context, policy retry.Policy, fn PageFunc[T], paginate bool, pageLimit int) ([]T, error) {
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}

	if !paginate {
		return fn(ctx, 1, pageLimit)
	}

	var all []T
	for page := 1; ; page++ {
		p := page
		items, err := retry.Do(ctx, policy, func(ctx context.Context) ([]T, error) {
			return fn(ctx, p, pageLimit)
		})
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < pageLimit {
			return all, nil
		}
	}
}
