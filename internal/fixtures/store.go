// Package fixtures serves companies, clients, operation natures and tax
// configurations from a YAML file. It backs local development and demos
// where no database is available.
package fixtures

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dukerupert/fiscal/internal/domain"
	"github.com/dukerupert/fiscal/internal/tax"
	"gopkg.in/yaml.v3"
)

type file struct {
	Companies      []company               `yaml:"empresas"`
	Clients        []client                `yaml:"clientes"`
	Natures        []nature                `yaml:"naturezasOperacao"`
	Configurations []*tax.TaxConfiguration `yaml:"configuracoes"`
}

type company struct {
	ID   string `yaml:"id"`
	Name string `yaml:"nome"`
	UF   string `yaml:"uf"`
}

type client struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"nome"`
	Addresses []address `yaml:"enderecos"`
}

type address struct {
	UF        string `yaml:"uf"`
	Principal bool   `yaml:"principal"`
}

type nature struct {
	ID          string `yaml:"id"`
	Description string `yaml:"descricao"`
	CFOP        string `yaml:"cfop"`
}

// Store is a read-only tax.Store over a parsed fixture file.
type Store struct {
	companies      map[string]tax.Company
	clients        map[string]tax.Client
	natures        map[string]tax.OperationNature
	configurations map[string]tax.TaxConfiguration
}

// Compile-time check that Store implements tax.Store.
var _ tax.Store = (*Store)(nil)

// Load reads and parses the fixture file at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(data)
}

// Parse builds a Store from YAML bytes.
func Parse(data []byte) (*Store, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	s := &Store{
		companies:      make(map[string]tax.Company, len(f.Companies)),
		clients:        make(map[string]tax.Client, len(f.Clients)),
		natures:        make(map[string]tax.OperationNature, len(f.Natures)),
		configurations: make(map[string]tax.TaxConfiguration, len(f.Configurations)),
	}

	for _, c := range f.Companies {
		s.companies[c.ID] = tax.Company{ID: c.ID, Name: c.Name, UF: strings.ToUpper(c.UF)}
	}
	for _, c := range f.Clients {
		addrs := make([]tax.Address, len(c.Addresses))
		for i, a := range c.Addresses {
			addrs[i] = tax.Address{UF: strings.ToUpper(a.UF), Principal: a.Principal}
		}
		s.clients[c.ID] = tax.Client{ID: c.ID, Name: c.Name, Addresses: addrs}
	}
	for _, n := range f.Natures {
		s.natures[n.ID] = tax.OperationNature{ID: n.ID, Description: n.Description, CFOP: n.CFOP}
	}
	for i, c := range f.Configurations {
		if c == nil || c.OperationNatureID == "" || c.UF == "" {
			return nil, fmt.Errorf("parse fixtures: configuracoes[%d] needs naturezaOperacaoId and uf", i)
		}
		key := configKey(c.OperationNatureID, c.UF)
		if _, dup := s.configurations[key]; dup {
			return nil, fmt.Errorf("parse fixtures: duplicate configuration for %s", key)
		}
		c.UF = strings.ToUpper(c.UF)
		s.configurations[key] = *c
	}

	return s, nil
}

func configKey(natureID, uf string) string {
	return natureID + "/" + strings.ToUpper(uf)
}

func (s *Store) GetCompany(ctx context.Context, id string) (tax.Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return tax.Company{}, domain.NotFound("fixtures.company", "empresa", id)
	}
	return c, nil
}

func (s *Store) GetClient(ctx context.Context, id string) (tax.Client, error) {
	c, ok := s.clients[id]
	if !ok {
		return tax.Client{}, domain.NotFound("fixtures.client", "cliente", id)
	}
	return c, nil
}

func (s *Store) GetOperationNature(ctx context.Context, id string) (tax.OperationNature, error) {
	n, ok := s.natures[id]
	if !ok {
		return tax.OperationNature{}, domain.NotFound("fixtures.nature", "natureza de operação", id)
	}
	return n, nil
}

// FindTaxConfiguration returns a copy so callers cannot alter the fixture.
func (s *Store) FindTaxConfiguration(ctx context.Context, operationNatureID, uf string) (*tax.TaxConfiguration, error) {
	c, ok := s.configurations[configKey(operationNatureID, uf)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}
