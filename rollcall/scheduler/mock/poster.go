package mock

import (
	context "context"
	reflect "reflect"
	time "time"

	snowflake "github.com/disgoorg/snowflake/v2"
	gomock "go.uber.org/mock/gomock"

	scheduler "github.com/duskriver/rollcall/rollcall/scheduler"
)

// MockChannelPoster is a mock of ChannelPoster interface.
type MockChannelPoster struct {
	ctrl     *gomock.Controller
	recorder *MockChannelPosterMockRecorder
	isgomock struct{}
}

// MockChannelPosterMockRecorder is the mock recorder for MockChannelPoster.
type MockChannelPosterMockRecorder struct {
	mock *MockChannelPoster
}

// NewMockChannelPoster creates a new mock instance.
func NewMockChannelPoster(ctrl *gomock.Controller) *MockChannelPoster {
	mock := &MockChannelPoster{ctrl: ctrl}
	mock.recorder = &MockChannelPosterMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockChannelPoster) EXPECT() *MockChannelPosterMockRecorder {
	return m.recorder
}

// CanEmbed mocks base method.
func (m *MockChannelPoster) CanEmbed(channelID snowflake.ID) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CanEmbed", channelID)
	ret0, _ := ret[0].(bool)
	return ret0
}

// CanEmbed indicates an expected call of CanEmbed.
func (mr *MockChannelPosterMockRecorder) CanEmbed(channelID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CanEmbed", reflect.TypeOf((*MockChannelPoster)(nil).CanEmbed), channelID)
}

// CanManageMessages mocks base method.
func (m *MockChannelPoster) CanManageMessages(channelID snowflake.ID) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CanManageMessages", channelID)
	ret0, _ := ret[0].(bool)
	return ret0
}

// CanManageMessages indicates an expected call of CanManageMessages.
func (mr *MockChannelPosterMockRecorder) CanManageMessages(channelID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CanManageMessages", reflect.TypeOf((*MockChannelPoster)(nil).CanManageMessages), channelID)
}

// CanSend mocks base method.
func (m *MockChannelPoster) CanSend(channelID snowflake.ID) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CanSend", channelID)
	ret0, _ := ret[0].(bool)
	return ret0
}

// CanSend indicates an expected call of CanSend.
func (mr *MockChannelPosterMockRecorder) CanSend(channelID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CanSend", reflect.TypeOf((*MockChannelPoster)(nil).CanSend), channelID)
}

// DeleteMessage mocks base method.
func (m *MockChannelPoster) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) scheduler.DeleteResult {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteMessage", ctx, channelID, messageID)
	ret0, _ := ret[0].(scheduler.DeleteResult)
	return ret0
}

// DeleteMessage indicates an expected call of DeleteMessage.
func (mr *MockChannelPosterMockRecorder) DeleteMessage(ctx, channelID, messageID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteMessage", reflect.TypeOf((*MockChannelPoster)(nil).DeleteMessage), ctx, channelID, messageID)
}

// PostEvent mocks base method.
func (m *MockChannelPoster) PostEvent(ctx context.Context, channelID snowflake.ID, date time.Time, event scheduler.EventData, eventTime scheduler.ClockTime) (snowflake.ID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PostEvent", ctx, channelID, date, event, eventTime)
	ret0, _ := ret[0].(snowflake.ID)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// PostEvent indicates an expected call of PostEvent.
func (mr *MockChannelPosterMockRecorder) PostEvent(ctx, channelID, date, event, eventTime any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PostEvent", reflect.TypeOf((*MockChannelPoster)(nil).PostEvent), ctx, channelID, date, event, eventTime)
}

// PostNotice mocks base method.
func (m *MockChannelPoster) PostNotice(ctx context.Context, channelID snowflake.ID, title, message string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PostNotice", ctx, channelID, title, message)
	ret0, _ := ret[0].(error)
	return ret0
}

// PostNotice indicates an expected call of PostNotice.
func (mr *MockChannelPosterMockRecorder) PostNotice(ctx, channelID, title, message any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PostNotice", reflect.TypeOf((*MockChannelPoster)(nil).PostNotice), ctx, channelID, title, message)
}

// PostReminder mocks base method.
func (m *MockChannelPoster) PostReminder(ctx context.Context, channelID snowflake.ID, kind scheduler.ActionKind, event scheduler.EventData, eventTime scheduler.ClockTime) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PostReminder", ctx, channelID, kind, event, eventTime)
	ret0, _ := ret[0].(error)
	return ret0
}

// PostReminder indicates an expected call of PostReminder.
func (mr *MockChannelPosterMockRecorder) PostReminder(ctx, channelID, kind, event, eventTime any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PostReminder", reflect.TypeOf((*MockChannelPoster)(nil).PostReminder), ctx, channelID, kind, event, eventTime)
}
