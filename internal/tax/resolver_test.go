package tax_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/fiscal/internal/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	destCfg := &tax.TaxConfiguration{ID: "cfg-rj", OperationNatureID: "venda", UF: "RJ"}
	originCfg := &tax.TaxConfiguration{ID: "cfg-sp", OperationNatureID: "venda", UF: "SP"}

	tests := []struct {
		name        string
		stored      []*tax.TaxConfiguration
		expectedID  string
		expected    tax.ConfigSource
		lookups     []string
		wantDefault bool
	}{
		{
			name:       "destination UF wins",
			stored:     []*tax.TaxConfiguration{destCfg, originCfg},
			expectedID: "cfg-rj",
			expected:   tax.SourceDestination,
			lookups:    []string{"venda/RJ"},
		},
		{
			name:       "falls back to origin UF",
			stored:     []*tax.TaxConfiguration{originCfg},
			expectedID: "cfg-sp",
			expected:   tax.SourceOrigin,
			lookups:    []string{"venda/RJ", "venda/SP"},
		},
		{
			name:        "synthesizes default when nothing stored",
			expected:    tax.SourceDefault,
			lookups:     []string{"venda/RJ", "venda/SP"},
			wantDefault: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tax.NewMockStore()
			for _, c := range tt.stored {
				store.PutConfiguration(c)
			}

			cfg, source, err := tax.NewResolver(store, nil).Resolve(context.Background(), "venda", "RJ", "SP")

			require.NoError(t, err)
			require.NotNil(t, cfg)
			assert.Equal(t, tt.expected, source)
			assert.Equal(t, tt.lookups, store.ConfigLookups)
			assert.Equal(t, tt.wantDefault, cfg.IsDefault)
			if !tt.wantDefault {
				assert.Equal(t, tt.expectedID, cfg.ID)
			}
		})
	}
}

func TestResolver_SameUFLooksUpOnce(t *testing.T) {
	store := tax.NewMockStore()

	_, source, err := tax.NewResolver(store, nil).Resolve(context.Background(), "venda", "SP", "SP")

	require.NoError(t, err)
	assert.Equal(t, tax.SourceDefault, source)
	assert.Equal(t, []string{"venda/SP"}, store.ConfigLookups)
}

func TestResolver_StoreFailureIsAnError(t *testing.T) {
	store := tax.NewMockStore()
	store.FindConfigError = errors.New("connection reset")

	cfg, _, err := tax.NewResolver(store, nil).Resolve(context.Background(), "venda", "RJ", "SP")

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, store.FindConfigError)
}

func TestDefaultConfiguration(t *testing.T) {
	cfg := tax.DefaultConfiguration("venda")

	assert.True(t, cfg.IsDefault)
	assert.Empty(t, cfg.ID, "default configuration has no persisted identity")
	assert.Equal(t, "venda", cfg.OperationNatureID)

	assert.Equal(t, "00", cfg.ICMS.CST)
	assertMoney(t, "18", cfg.ICMS.Rate)
	assert.Equal(t, "00", cfg.IPI.CST)
	assertMoney(t, "5", cfg.IPI.Rate)
	assert.Equal(t, "01", cfg.PIS.CST)
	assertMoney(t, "1.65", cfg.PIS.Rate)
	assert.Equal(t, "01", cfg.COFINS.CST)
	assertMoney(t, "7.6", cfg.COFINS.Rate)
	assertMoney(t, "5", cfg.ISS.Rate)
	assertMoney(t, "1", cfg.CSLL.Rate)

	for _, rule := range []tax.TaxRule{cfg.ICMS, cfg.IPI, cfg.PIS, cfg.COFINS} {
		assert.False(t, rule.IncludeFreight)
		assert.False(t, rule.IncludeExpenses)
		assert.False(t, rule.ReduceBase)
		assert.True(t, rule.ReductionPercent.IsZero())
	}
	assert.True(t, cfg.ICMSST.MVA.IsZero())

	// Each call returns a fresh value.
	other := tax.DefaultConfiguration("venda")
	other.ICMS.CST = "40"
	assert.Equal(t, "00", cfg.ICMS.CST)
}
