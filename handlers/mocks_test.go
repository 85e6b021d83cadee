package handlers

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/BillChill/billchill-backend/logger"
	"github.com/BillChill/billchill-backend/types"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	os.Exit(m.Run())
}

type MockHospitalSearcher struct {
	mock.Mock
}

func (m *MockHospitalSearcher) Search(ctx context.Context, req types.HospitalSearchRequest) ([]types.HospitalResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.HospitalResult), args.Error(1)
}

type MockBillAuditor struct {
	mock.Mock
}

func (m *MockBillAuditor) Analyze(ctx context.Context, in types.AnalyzeBillInput) (*types.BillingAnalysis, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.BillingAnalysis), args.Error(1)
}

func (m *MockBillAuditor) DraftLetter(ctx context.Context, patientName, hospitalName string, analysis *types.BillingAnalysis) (string, error) {
	args := m.Called(ctx, patientName, hospitalName, analysis)
	return args.String(0), args.Error(1)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) CheckHealth(ctx context.Context) types.HealthCheck {
	args := m.Called(ctx)
	return args.Get(0).(types.HealthCheck)
}

// staticProviders is a fixed provider catalog.
type staticProviders map[string]string

func (p staticProviders) Names() []string {
	names := make([]string, 0, len(p))
	for _, n := range []string{"United", "Providence", "Molina", "CMS"} {
		if _, ok := p[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

func (p staticProviders) RulesPath(name string) (string, bool) {
	path, ok := p[name]
	return path, ok
}

// memoryStorage keeps saved uploads in memory.
type memoryStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	saveErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: make(map[string][]byte)}
}

func (s *memoryStorage) Save(ctx context.Context, path string, reader io.Reader, size int64) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = buf.Bytes()
	return nil
}

func (s *memoryStorage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *memoryStorage) GetPath(ctx context.Context, path string) string {
	return "memory://" + path
}

func (s *memoryStorage) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.files))
	for k := range s.files {
		keys = append(keys, k)
	}
	return keys
}
