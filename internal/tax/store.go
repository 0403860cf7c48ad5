package tax

import "context"

// Company is the issuing company. Its UF is the operation origin.
type Company struct {
	ID   string
	Name string
	UF   string
}

// Address is a client address.
type Address struct {
	UF        string
	Principal bool
}

// Client is the order's counterpart (cadastro).
type Client struct {
	ID        string
	Name      string
	Addresses []Address
}

// DestinationUF returns the UF of the principal address, else of the first
// address, else fallback.
func (c Client) DestinationUF(fallback string) string {
	for _, a := range c.Addresses {
		if a.Principal && a.UF != "" {
			return a.UF
		}
	}
	if len(c.Addresses) > 0 && c.Addresses[0].UF != "" {
		return c.Addresses[0].UF
	}
	return fallback
}

// OperationNature classifies the commercial transaction (natureza de operação).
type OperationNature struct {
	ID          string
	Description string
	CFOP        string
}

// Store is the lookup surface the engine reads from.
//
// GetCompany, GetClient and GetOperationNature return a domain.ENOTFOUND error
// when the record is absent. FindTaxConfiguration returns (nil, nil) when no
// configuration exists for the pair; that is not an error.
type Store interface {
	GetCompany(ctx context.Context, id string) (Company, error)
	GetClient(ctx context.Context, id string) (Client, error)
	GetOperationNature(ctx context.Context, id string) (OperationNature, error)
	FindTaxConfiguration(ctx context.Context, operationNatureID, uf string) (*TaxConfiguration, error)
}

// ConfigFinder is the part of Store the Resolver needs.
type ConfigFinder interface {
	FindTaxConfiguration(ctx context.Context, operationNatureID, uf string) (*TaxConfiguration, error)
}
