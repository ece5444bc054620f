package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"billscan/internal/analytics"
	"billscan/internal/domain"
	"billscan/internal/report"
)

// MockAnalyticsService is a mock implementation of service.AnalyticsService.
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Search(ctx context.Context, f analytics.Filter, key domain.SortKey, descending bool) ([]domain.BillRecord, error) {
	args := m.Called(ctx, f, key, descending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillRecord), args.Error(1)
}

func (m *MockAnalyticsService) Summary(ctx context.Context, f analytics.Filter) (analytics.Summary, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(analytics.Summary), args.Error(1)
}

func (m *MockAnalyticsService) TopVendors(ctx context.Context, f analytics.Filter, n int) ([]report.VendorTotal, error) {
	args := m.Called(ctx, f, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.VendorTotal), args.Error(1)
}

func (m *MockAnalyticsService) CategoryBreakdown(ctx context.Context, f analytics.Filter) ([]report.CategoryTotal, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.CategoryTotal), args.Error(1)
}

func (m *MockAnalyticsService) Trend(ctx context.Context, f analytics.Filter, period domain.Period) ([]analytics.Bucket, error) {
	args := m.Called(ctx, f, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.Bucket), args.Error(1)
}

func (m *MockAnalyticsService) Overview(ctx context.Context) (*report.Overview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Overview), args.Error(1)
}
