package tax

import (
	"context"

	"github.com/dukerupert/fiscal/internal/domain"
)

// MockCalculator is a test implementation of Calculator.
type MockCalculator struct {
	CalculateFunc func(ctx context.Context, req OrderRequest) (*OrderResult, error)
}

// NewMockCalculator creates a new mock tax calculator for testing.
func NewMockCalculator() *MockCalculator {
	return &MockCalculator{}
}

// Calculate delegates to CalculateFunc, or returns an empty result.
func (m *MockCalculator) Calculate(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	if m.CalculateFunc != nil {
		return m.CalculateFunc(ctx, req)
	}
	return &OrderResult{ConfigurationSource: SourceDefault}, nil
}

// MockStore is an in-memory Store for tests. Records are keyed by ID;
// configurations by operation nature ID and UF.
type MockStore struct {
	Companies       map[string]Company
	Clients         map[string]Client
	Natures         map[string]OperationNature
	Configurations  map[string]*TaxConfiguration
	FindConfigError error

	// ConfigLookups records every FindTaxConfiguration call as "nature/UF".
	ConfigLookups []string
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		Companies:      map[string]Company{},
		Clients:        map[string]Client{},
		Natures:        map[string]OperationNature{},
		Configurations: map[string]*TaxConfiguration{},
	}
}

// PutConfiguration stores cfg under its nature and UF.
func (m *MockStore) PutConfiguration(cfg *TaxConfiguration) {
	m.Configurations[cfg.OperationNatureID+"/"+cfg.UF] = cfg
}

func (m *MockStore) GetCompany(ctx context.Context, id string) (Company, error) {
	c, ok := m.Companies[id]
	if !ok {
		return Company{}, domain.NotFound("mock.company", "empresa", id)
	}
	return c, nil
}

func (m *MockStore) GetClient(ctx context.Context, id string) (Client, error) {
	c, ok := m.Clients[id]
	if !ok {
		return Client{}, domain.NotFound("mock.client", "cliente", id)
	}
	return c, nil
}

func (m *MockStore) GetOperationNature(ctx context.Context, id string) (OperationNature, error) {
	n, ok := m.Natures[id]
	if !ok {
		return OperationNature{}, domain.NotFound("mock.nature", "natureza de operação", id)
	}
	return n, nil
}

func (m *MockStore) FindTaxConfiguration(ctx context.Context, operationNatureID, uf string) (*TaxConfiguration, error) {
	key := operationNatureID + "/" + uf
	m.ConfigLookups = append(m.ConfigLookups, key)
	if m.FindConfigError != nil {
		return nil, m.FindConfigError
	}
	return m.Configurations[key], nil
}
