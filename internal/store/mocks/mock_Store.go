// Package mocks provides test doubles for the store package.
package mocks

import (
	"context"

	model "github.com/sells-group/call-intel/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockStore is a mock type for the Store interface.
type MockStore struct {
	mock.Mock
}

// SaveTranscript provides a mock function with given fields: ctx, t
func (_m *MockStore) SaveTranscript(ctx context.Context, t *model.Transcript) error {
	ret := _m.Called(ctx, t)

	if len(ret) == 0 {
		panic("no return value specified for SaveTranscript")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.Transcript) error); ok {
		r0 = rf(ctx, t)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetTranscript provides a mock function with given fields: ctx, id
func (_m *MockStore) GetTranscript(ctx context.Context, id string) (*model.Transcript, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetTranscript")
	}

	var r0 *model.Transcript
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.Transcript, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.Transcript); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Transcript)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetCachedAnalysis provides a mock function with given fields: ctx, transcriptID
func (_m *MockStore) GetCachedAnalysis(ctx context.Context, transcriptID string) (*model.CachedAnalysis, error) {
	ret := _m.Called(ctx, transcriptID)

	if len(ret) == 0 {
		panic("no return value specified for GetCachedAnalysis")
	}

	var r0 *model.CachedAnalysis
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.CachedAnalysis, error)); ok {
		return rf(ctx, transcriptID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.CachedAnalysis); ok {
		r0 = rf(ctx, transcriptID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.CachedAnalysis)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, transcriptID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// PutCachedAnalysis provides a mock function with given fields: ctx, transcriptID, sales, call
func (_m *MockStore) PutCachedAnalysis(ctx context.Context, transcriptID string, sales *model.SalesData, call *model.CallAnalysis) error {
	ret := _m.Called(ctx, transcriptID, sales, call)

	if len(ret) == 0 {
		panic("no return value specified for PutCachedAnalysis")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, *model.SalesData, *model.CallAnalysis) error); ok {
		r0 = rf(ctx, transcriptID, sales, call)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// SaveEnrichment provides a mock function with given fields: ctx, e
func (_m *MockStore) SaveEnrichment(ctx context.Context, e *model.Enrichment) error {
	ret := _m.Called(ctx, e)

	if len(ret) == 0 {
		panic("no return value specified for SaveEnrichment")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.Enrichment) error); ok {
		r0 = rf(ctx, e)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListEnrichments provides a mock function with given fields: ctx, transcriptID, kind
func (_m *MockStore) ListEnrichments(ctx context.Context, transcriptID string, kind model.EnrichmentKind) ([]model.Enrichment, error) {
	ret := _m.Called(ctx, transcriptID, kind)

	if len(ret) == 0 {
		panic("no return value specified for ListEnrichments")
	}

	var r0 []model.Enrichment
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, model.EnrichmentKind) ([]model.Enrichment, error)); ok {
		return rf(ctx, transcriptID, kind)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, model.EnrichmentKind) []model.Enrichment); ok {
		r0 = rf(ctx, transcriptID, kind)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.Enrichment)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, model.EnrichmentKind) error); ok {
		r1 = rf(ctx, transcriptID, kind)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Migrate provides a mock function with given fields: ctx
func (_m *MockStore) Migrate(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Migrate")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Close provides a mock function with no fields
func (_m *MockStore) Close() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Close")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockStore creates a new instance of MockStore.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	mock := &MockStore{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
