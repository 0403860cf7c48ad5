package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/dukerupert/fiscal/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// brazilianStates are the 26 states plus the Federal District.
var brazilianStates = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true, "DF": true,
	"ES": true, "GO": true, "MA": true, "MT": true, "MS": true, "MG": true, "PA": true,
	"PB": true, "PR": true, "PE": true, "PI": true, "RJ": true, "RN": true, "RS": true,
	"RO": true, "RR": true, "SC": true, "SP": true, "SE": true, "TO": true,
}

// Validator validates request DTOs and reports failures under their JSON
// field paths, e.g. "itens[0].quantidade".
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the fiscal tags registered:
//
//	uf    two-letter Brazilian state code
//
// decimal.Decimal fields are compared as numbers, so gte/gt/lte work on them.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterValidation("uf", func(fl validator.FieldLevel) bool {
		return brazilianStates[fl.Field().String()]
	})

	return &Validator{validate: v}
}

// Struct validates s. It returns nil or a *domain.ValidationError.
func (v *Validator) Struct(op string, s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.Internal(err, op, "failed to validate request")
	}

	ve := &domain.ValidationError{Op: op, Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Fields[fieldPath(fe.Namespace())] = message(fe)
	}
	return ve
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "uf":
		return "UF inválida"
	case "gte":
		return "deve ser maior ou igual a " + fe.Param()
	case "gt":
		return "deve ser maior que " + fe.Param()
	case "len":
		return "deve ter " + fe.Param() + " caracteres"
	case "min":
		return "deve ter ao menos " + fe.Param() + " caracteres"
	case "max":
		return "deve ter no máximo " + fe.Param() + " caracteres"
	case "numeric":
		return "deve conter apenas dígitos"
	case "uuid":
		return "identificador inválido"
	default:
		return "valor inválido"
	}
}
