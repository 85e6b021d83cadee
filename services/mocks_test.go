package services

import (
	"context"

	"github.com/BillChill/billchill-backend/logger"
	"github.com/BillChill/billchill-backend/pkg/llm"
	"github.com/BillChill/billchill-backend/pkg/valueobjects"
	"github.com/BillChill/billchill-backend/types"
	"github.com/stretchr/testify/mock"
)

func init() {
	logger.IsTest = true
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Reverse(ctx context.Context, lat, lon float64) types.PlaceLabel {
	args := m.Called(ctx, lat, lon)
	return args.Get(0).(types.PlaceLabel)
}

func (m *MockGeocoder) Forward(ctx context.Context, address string) (valueobjects.GeoPoint, bool) {
	args := m.Called(ctx, address)
	return args.Get(0).(valueobjects.GeoPoint), args.Bool(1)
}

type MockURLChecker struct {
	mock.Mock
}

func (m *MockURLChecker) IsAlive(ctx context.Context, rawURL string) bool {
	args := m.Called(ctx, rawURL)
	return args.Bool(0)
}

type MockChatClient struct {
	mock.Mock
	NoKey bool
}

func (m *MockChatClient) HasAPIKey() bool {
	return !m.NoKey
}

func (m *MockChatClient) ChatCompletion(ctx context.Context, req llm.ChatRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func mustPoint(lat, lon float64) valueobjects.GeoPoint {
	p, err := valueobjects.NewGeoPoint(lat, lon)
	if err != nil {
		panic(err)
	}
	return *p
}
