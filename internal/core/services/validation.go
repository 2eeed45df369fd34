package services

import (
	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

// errInvalidRequest marks request DTOs that fail their binding rules.
var errInvalidRequest = apperrors.NewValidation("InvalidRequest", "invalid request")

// requestValidator checks the same `binding` tags gin checks on the HTTP path.
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

func validateRequest(req any) error {
	if err := requestValidator.Struct(req); err != nil {
		return errInvalidRequest.Wrap(err)
	}
	return nil
}
