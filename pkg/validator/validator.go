package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

// Validator validates request structs via `validate` tags.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

// Struct validates s and converts field failures into a single
// ValidationError naming every failed field.
func (vd *Validator) Struct(s interface{}) error {
	err := vd.v.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation("invalid input", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
	}
	return apperrors.Validation(strings.Join(msgs, "; "), err)
}
