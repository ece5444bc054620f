package service

import (
	"context"
	"fmt"

	"billscan/internal/analytics"
	"billscan/internal/domain"
	"billscan/internal/port"
	"billscan/internal/report"
)

// AnalyticsService answers queries over the full record set. Each call
// loads a snapshot from the repository and runs the in-memory analytics
// engine over it, so results are consistent within a single request.
type AnalyticsService interface {
	Search(ctx context.Context, f analytics.Filter, key domain.SortKey, descending bool) ([]domain.BillRecord, error)
	Summary(ctx context.Context, f analytics.Filter) (analytics.Summary, error)
	TopVendors(ctx context.Context, f analytics.Filter, n int) ([]report.VendorTotal, error)
	CategoryBreakdown(ctx context.Context, f analytics.Filter) ([]report.CategoryTotal, error)
	Trend(ctx context.Context, f analytics.Filter, period domain.Period) ([]analytics.Bucket, error)
	Overview(ctx context.Context) (*report.Overview, error)
}

type analyticsService struct {
	records port.RecordRepository
}

// NewAnalyticsService creates a new AnalyticsService implementation.
func NewAnalyticsService(records port.RecordRepository) AnalyticsService {
	return &analyticsService{records: records}
}

func (s *analyticsService) snapshot(ctx context.Context, f analytics.Filter) ([]domain.BillRecord, error) {
	recs, err := s.records.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading record snapshot: %w", err)
	}
	return analytics.FilterRecords(recs, f)
}

func (s *analyticsService) Search(ctx context.Context, f analytics.Filter, key domain.SortKey, descending bool) ([]domain.BillRecord, error) {
	recs, err := s.snapshot(ctx, f)
	if err != nil {
		return nil, err
	}
	return analytics.SortRecords(recs, key, descending)
}

func (s *analyticsService) Summary(ctx context.Context, f analytics.Filter) (analytics.Summary, error) {
	recs, err := s.snapshot(ctx, f)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(recs), nil
}

func (s *analyticsService) TopVendors(ctx context.Context, f analytics.Filter, n int) ([]report.VendorTotal, error) {
	recs, err := s.snapshot(ctx, f)
	if err != nil {
		return nil, err
	}
	return report.TopVendors(recs, n), nil
}

func (s *analyticsService) CategoryBreakdown(ctx context.Context, f analytics.Filter) ([]report.CategoryTotal, error) {
	recs, err := s.snapshot(ctx, f)
	if err != nil {
		return nil, err
	}
	return report.CategoryBreakdown(recs), nil
}

func (s *analyticsService) Trend(ctx context.Context, f analytics.Filter, period domain.Period) ([]analytics.Bucket, error) {
	recs, err := s.snapshot(ctx, f)
	if err != nil {
		return nil, err
	}
	return report.Trend(recs, period)
}

func (s *analyticsService) Overview(ctx context.Context) (*report.Overview, error) {
	recs, err := s.records.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading record snapshot: %w", err)
	}
	o := report.BuildOverview(recs)
	return &o, nil
}
