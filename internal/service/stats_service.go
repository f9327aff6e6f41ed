package service

import (
	"context"
	"time"

	"shortlink-admin/internal/core/cache"
	"shortlink-admin/internal/domain"
)

const overviewCacheKey = "admin:stats:overview"

// StatsService 总览口径：total_revenue = 短链总数 × 单价。
// 这是沿用下来的业务口径（按量计费），不要改成充值金额合计；
// 充值口径另给 approved_amount 字段做参考。
type StatsService struct {
	repo     domain.StatsRepository
	cache    *cache.Cache // 可为 nil
	unitCost float64
	ttl      time.Duration
	recentN  int
}

func NewStatsService(repo domain.StatsRepository, c *cache.Cache, unitCost float64, ttl time.Duration, recentN int) *StatsService {
	if recentN <= 0 {
		recentN = 5
	}
	return &StatsService{repo: repo, cache: c, unitCost: unitCost, ttl: ttl, recentN: recentN}
}

// Overview 各计数独立查询，本来就没有跨表一致性；加一层短 TTL 缓存
// 只是把已有的陈旧窗口放宽一点，换掉仪表盘轮询的查询压力。
func (s *StatsService) Overview(ctx context.Context) (*domain.Overview, error) {
	if s.cache == nil || s.ttl <= 0 {
		return s.load(ctx)
	}
	return cache.GetOrLoadJSON[domain.Overview](s.cache, ctx, overviewCacheKey, s.ttl, s.load)
}

func (s *StatsService) load(ctx context.Context) (*domain.Overview, error) {
	o, err := s.repo.Counters(ctx)
	if err != nil {
		return nil, err
	}
	o.TotalRevenue = float64(o.TotalShortlinks) * s.unitCost
	return o, nil
}

func (s *StatsService) Recent(ctx context.Context) (*domain.Recent, error) {
	return s.repo.Recent(ctx, s.recentN)
}

// InvalidateOverview 余额 / 状态 / 删号之后调用，让下一次总览立刻回源
func (s *StatsService) InvalidateOverview(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, overviewCacheKey)
	}
}
