package echoapi

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/core/user"
)

type (
	LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role" validate:"required,role"`
		// RememberMe opts in to the remembered-identity record. Leaving it
		// false does not forget a previously remembered user; forgetting is
		// an explicit opt-out (DELETE /v1/auth/remembered).
		RememberMe bool `json:"remember_me"`
	}

	LoginResponse struct {
		User      user.User `json:"user"`
		ExpiresAt time.Time `json:"expires_at"`
	}
)

// Validate only checks the role shape; username/password emptiness is the
// credential acceptor's contract, so its message passes through unchanged.
func (r *LoginRequest) Validate(validate *validator.Validate, translator ut.Translator) error {
	return validateStruct(validate, translator, r)
}

func validateStruct(validate *validator.Validate, translator ut.Translator, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		flds := make([]core.FieldError, 0, len(vErrs))
		for _, vErr := range vErrs {
			flds = append(flds, core.FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
		}
		return core.NewValidationError(err, flds...)
	}
	return err
}
