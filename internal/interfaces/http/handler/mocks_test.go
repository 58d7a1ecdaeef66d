package handler

import (
	"context"

	"github.com/google/uuid"
	appconnector "github.com/openpoint/platform/internal/application/connector"
	appintegration "github.com/openpoint/platform/internal/application/integration"
	"github.com/openpoint/platform/internal/application/runtime"
	"github.com/openpoint/platform/internal/domain/integration"
	"github.com/stretchr/testify/mock"
)

type mockIntegrations struct{ mock.Mock }

func (m *mockIntegrations) Create(ctx context.Context, req appintegration.CreateIntegrationRequest) (*appintegration.IntegrationResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*appintegration.IntegrationResponse)
	return resp, args.Error(1)
}

func (m *mockIntegrations) List(ctx context.Context) ([]appintegration.IntegrationResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).([]appintegration.IntegrationResponse)
	return resp, args.Error(1)
}

func (m *mockIntegrations) Get(ctx context.Context, id uuid.UUID) (*appintegration.IntegrationResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*appintegration.IntegrationResponse)
	return resp, args.Error(1)
}

func (m *mockIntegrations) Update(ctx context.Context, id uuid.UUID, req appintegration.UpdateIntegrationRequest) (*appintegration.IntegrationResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*appintegration.IntegrationResponse)
	return resp, args.Error(1)
}

func (m *mockIntegrations) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockLifecycle struct{ mock.Mock }

func (m *mockLifecycle) result(args mock.Arguments) (*integration.Integration, error) {
	in, _ := args.Get(0).(*integration.Integration)
	return in, args.Error(1)
}

func (m *mockLifecycle) Deploy(ctx context.Context, id uuid.UUID) (*integration.Integration, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockLifecycle) Start(ctx context.Context, id uuid.UUID) (*integration.Integration, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockLifecycle) Stop(ctx context.Context, id uuid.UUID) (*integration.Integration, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockLifecycle) SetStatus(ctx context.Context, id uuid.UUID, status integration.Status) (*integration.Integration, error) {
	return m.result(m.Called(ctx, id, status))
}

type mockExecutor struct{ mock.Mock }

func (m *mockExecutor) Execute(ctx context.Context, id uuid.UUID) (*runtime.ExecutionResult, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*runtime.ExecutionResult)
	return res, args.Error(1)
}

type mockMonitor struct{ mock.Mock }

func (m *mockMonitor) Health(ctx context.Context, id uuid.UUID) (*runtime.HealthReport, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*runtime.HealthReport)
	return res, args.Error(1)
}

func (m *mockMonitor) Logs(ctx context.Context, id uuid.UUID, limit int) ([]integration.LogEntry, error) {
	args := m.Called(ctx, id, limit)
	res, _ := args.Get(0).([]integration.LogEntry)
	return res, args.Error(1)
}

type mockConnectors struct{ mock.Mock }

func (m *mockConnectors) Create(ctx context.Context, req appconnector.CreateConnectorRequest) (*appconnector.ConnectorResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*appconnector.ConnectorResponse)
	return resp, args.Error(1)
}

func (m *mockConnectors) List(ctx context.Context) ([]appconnector.ConnectorResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).([]appconnector.ConnectorResponse)
	return resp, args.Error(1)
}

func (m *mockConnectors) Get(ctx context.Context, id uuid.UUID) (*appconnector.ConnectorResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*appconnector.ConnectorResponse)
	return resp, args.Error(1)
}

func (m *mockConnectors) Update(ctx context.Context, id uuid.UUID, req appconnector.UpdateConnectorRequest) (*appconnector.ConnectorResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*appconnector.ConnectorResponse)
	return resp, args.Error(1)
}

func (m *mockConnectors) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockConnectors) Types() []appconnector.ConnectorTypeResponse {
	resp, _ := m.Called().Get(0).([]appconnector.ConnectorTypeResponse)
	return resp
}

type mockTester struct{ mock.Mock }

func (m *mockTester) Test(ctx context.Context, id uuid.UUID) (*appconnector.TestConnectorResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*appconnector.TestConnectorResponse)
	return resp, args.Error(1)
}
