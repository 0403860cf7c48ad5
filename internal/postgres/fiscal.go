package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/dukerupert/fiscal/internal/domain"
	"github.com/dukerupert/fiscal/internal/tax"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the subset of pgxpool.Pool and pgx.Tx the store uses.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// FiscalStore implements tax.Store using PostgreSQL.
type FiscalStore struct {
	db DBTX
}

// Compile-time check that FiscalStore implements tax.Store.
var _ tax.Store = (*FiscalStore)(nil)

// NewFiscalStore creates a new PostgreSQL-backed fiscal store.
func NewFiscalStore(db DBTX) *FiscalStore {
	return &FiscalStore{db: db}
}

// =============================================================================
// CADASTROS
// =============================================================================

const getCompany = `SELECT id::text, nome, uf FROM empresas WHERE id = $1`

// GetCompany returns the issuing company.
func (s *FiscalStore) GetCompany(ctx context.Context, id string) (tax.Company, error) {
	if !validID(id) {
		return tax.Company{}, domain.NotFound("company.get", "empresa", id)
	}

	var c tax.Company
	err := s.db.QueryRow(ctx, getCompany, id).Scan(&c.ID, &c.Name, &c.UF)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tax.Company{}, domain.NotFound("company.get", "empresa", id)
		}
		return tax.Company{}, domain.Internal(err, "company.get", "failed to load company")
	}
	c.UF = strings.TrimSpace(c.UF)

	return c, nil
}

const getClient = `SELECT id::text, nome FROM clientes WHERE id = $1`

const listClientAddresses = `
SELECT uf, principal
FROM enderecos
WHERE cliente_id = $1
ORDER BY created_at, id`

// GetClient returns the client with its addresses in registration order.
func (s *FiscalStore) GetClient(ctx context.Context, id string) (tax.Client, error) {
	if !validID(id) {
		return tax.Client{}, domain.NotFound("client.get", "cliente", id)
	}

	var c tax.Client
	err := s.db.QueryRow(ctx, getClient, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tax.Client{}, domain.NotFound("client.get", "cliente", id)
		}
		return tax.Client{}, domain.Internal(err, "client.get", "failed to load client")
	}

	rows, err := s.db.Query(ctx, listClientAddresses, id)
	if err != nil {
		return tax.Client{}, domain.Internal(err, "client.get", "failed to load client addresses")
	}
	addrs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (tax.Address, error) {
		var a tax.Address
		err := row.Scan(&a.UF, &a.Principal)
		a.UF = strings.TrimSpace(a.UF)
		return a, err
	})
	if err != nil {
		return tax.Client{}, domain.Internal(err, "client.get", "failed to load client addresses")
	}
	c.Addresses = addrs

	return c, nil
}

const getOperationNature = `SELECT id::text, descricao, cfop FROM naturezas_operacao WHERE id = $1`

// GetOperationNature returns the operation nature.
func (s *FiscalStore) GetOperationNature(ctx context.Context, id string) (tax.OperationNature, error) {
	if !validID(id) {
		return tax.OperationNature{}, domain.NotFound("nature.get", "natureza de operação", id)
	}

	var n tax.OperationNature
	err := s.db.QueryRow(ctx, getOperationNature, id).Scan(&n.ID, &n.Description, &n.CFOP)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tax.OperationNature{}, domain.NotFound("nature.get", "natureza de operação", id)
		}
		return tax.OperationNature{}, domain.Internal(err, "nature.get", "failed to load operation nature")
	}

	return n, nil
}

// =============================================================================
// CONFIGURAÇÕES TRIBUTÁRIAS
// =============================================================================

const findTaxConfiguration = `
SELECT id::text, natureza_operacao_id::text, uf
FROM configuracoes_tributarias
WHERE natureza_operacao_id = $1 AND uf = $2`

const listTaxRules = `
SELECT tributo, cst, aliquota, aliquota_unidade, mva,
       incluir_frete, incluir_despesas, reduzir_base,
       percentual_reducao, percentual_diferimento, uf_st_anterior,
       ativo, valor_minimo
FROM regras_tributarias
WHERE configuracao_id = $1`

// ruleRow mirrors a regras_tributarias row in select order.
type ruleRow struct {
	Tax              string
	CST              pgtype.Text
	Rate             pgtype.Numeric
	UnitRate         pgtype.Numeric
	MVA              pgtype.Numeric
	IncludeFreight   bool
	IncludeExpenses  bool
	ReduceBase       bool
	ReductionPercent pgtype.Numeric
	DeferralPercent  pgtype.Numeric
	PriorSTState     pgtype.Text
	Enabled          bool
	MinBase          pgtype.Numeric
}

// FindTaxConfiguration returns the configuration of the (nature, UF) pair, or
// nil when none is stored.
func (s *FiscalStore) FindTaxConfiguration(ctx context.Context, operationNatureID, uf string) (*tax.TaxConfiguration, error) {
	if !validID(operationNatureID) {
		return nil, nil
	}

	var cfg tax.TaxConfiguration
	err := s.db.QueryRow(ctx, findTaxConfiguration, operationNatureID, strings.ToUpper(uf)).
		Scan(&cfg.ID, &cfg.OperationNatureID, &cfg.UF)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Internal(err, "configuration.find", "failed to load tax configuration")
	}
	cfg.UF = strings.TrimSpace(cfg.UF)

	rows, err := s.db.Query(ctx, listTaxRules, cfg.ID)
	if err != nil {
		return nil, domain.Internal(err, "configuration.find", "failed to load tax rules")
	}
	rules, err := pgx.CollectRows(rows, pgx.RowToStructByPos[ruleRow])
	if err != nil {
		return nil, domain.Internal(err, "configuration.find", "failed to load tax rules")
	}

	for _, r := range rules {
		applyRule(&cfg, r)
	}

	return &cfg, nil
}

// applyRule copies a rule row into the matching configuration field.
// Unknown tax names are ignored; the table constrains them.
func applyRule(cfg *tax.TaxConfiguration, r ruleRow) {
	switch r.Tax {
	case "icms":
		cfg.ICMS = r.taxRule()
	case "icms_st":
		cfg.ICMSST = tax.STRule{
			MVA:              numericToDecimal(r.MVA),
			Rate:             numericToDecimal(r.Rate),
			ReductionPercent: numericToDecimal(r.ReductionPercent),
		}
	case "ipi":
		cfg.IPI = r.taxRule()
	case "pis":
		cfg.PIS = r.taxRule()
	case "cofins":
		cfg.COFINS = r.taxRule()
	case "iss":
		cfg.ISS = r.withholdingRule()
	case "csll":
		cfg.CSLL = r.withholdingRule()
	case "pis_retido":
		cfg.PISRet = r.withholdingRule()
	case "inss":
		cfg.INSS = r.withholdingRule()
	case "ir":
		cfg.IR = r.withholdingRule()
	case "cofins_retido":
		cfg.COFINSRet = r.withholdingRule()
	}
}

func (r ruleRow) taxRule() tax.TaxRule {
	return tax.TaxRule{
		CST:              textValue(r.CST),
		Rate:             numericToDecimal(r.Rate),
		UnitRate:         numericToDecimal(r.UnitRate),
		IncludeFreight:   r.IncludeFreight,
		IncludeExpenses:  r.IncludeExpenses,
		ReduceBase:       r.ReduceBase,
		ReductionPercent: numericToDecimal(r.ReductionPercent),
		DeferralPercent:  numericToDecimal(r.DeferralPercent),
		PriorSTState:     textValue(r.PriorSTState),
	}
}

func (r ruleRow) withholdingRule() tax.WithholdingRule {
	return tax.WithholdingRule{
		Enabled:          r.Enabled,
		Rate:             numericToDecimal(r.Rate),
		MinBase:          numericToDecimal(r.MinBase),
		IncludeFreight:   r.IncludeFreight,
		IncludeExpenses:  r.IncludeExpenses,
		ReductionPercent: numericToDecimal(r.ReductionPercent),
	}
}
