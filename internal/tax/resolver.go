package tax

import (
	"context"
	"fmt"
	"log/slog"
)

// Resolver picks the TaxConfiguration for an operation nature and UF pair.
// It reads fresh from the store on every call; configurations are business
// data that can change between requests.
type Resolver struct {
	finder ConfigFinder
	logger *slog.Logger
}

// NewResolver creates a resolver over finder.
func NewResolver(finder ConfigFinder, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{finder: finder, logger: logger}
}

// Resolve looks up (nature, destUF), then (nature, originUF), then falls back
// to DefaultConfiguration. A missing configuration is never an error; only a
// store failure is.
func (r *Resolver) Resolve(ctx context.Context, operationNatureID, destUF, originUF string) (*TaxConfiguration, ConfigSource, error) {
	cfg, err := r.finder.FindTaxConfiguration(ctx, operationNatureID, destUF)
	if err != nil {
		return nil, "", fmt.Errorf("find tax configuration for %s/%s: %w", operationNatureID, destUF, err)
	}
	if cfg != nil {
		return cfg, SourceDestination, nil
	}

	if originUF != destUF {
		cfg, err = r.finder.FindTaxConfiguration(ctx, operationNatureID, originUF)
		if err != nil {
			return nil, "", fmt.Errorf("find tax configuration for %s/%s: %w", operationNatureID, originUF, err)
		}
		if cfg != nil {
			r.logger.Debug("tax configuration resolved from origin UF",
				slog.String("natureza_operacao_id", operationNatureID),
				slog.String("uf_destino", destUF),
				slog.String("uf_origem", originUF),
			)
			return cfg, SourceOrigin, nil
		}
	}

	r.logger.Info("no tax configuration stored, using default",
		slog.String("natureza_operacao_id", operationNatureID),
		slog.String("uf_destino", destUF),
		slog.String("uf_origem", originUF),
	)
	return DefaultConfiguration(operationNatureID), SourceDefault, nil
}
