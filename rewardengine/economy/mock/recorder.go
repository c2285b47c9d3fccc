package mock

import (
	context "context"
	reflect "reflect"

	models "github.com/playvault/reward-engine/rewardengine/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockStatsRecorder is a mock of StatsRecorder interface.
type MockStatsRecorder struct {
	ctrl     *gomock.Controller
	recorder *MockStatsRecorderMockRecorder
	isgomock struct{}
}

// MockStatsRecorderMockRecorder is the mock recorder for MockStatsRecorder.
type MockStatsRecorderMockRecorder struct {
	mock *MockStatsRecorder
}

// NewMockStatsRecorder creates a new mock instance.
func NewMockStatsRecorder(ctrl *gomock.Controller) *MockStatsRecorder {
	mock := &MockStatsRecorder{ctrl: ctrl}
	mock.recorder = &MockStatsRecorderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStatsRecorder) EXPECT() *MockStatsRecorderMockRecorder {
	return m.recorder
}

// Create mocks base method.
func (m *MockStatsRecorder) Create(ctx context.Context, stats *models.StakingStats) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, stats)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockStatsRecorderMockRecorder) Create(ctx, stats any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockStatsRecorder)(nil).Create), ctx, stats)
}
