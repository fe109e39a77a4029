package handlers

import (
	"errors"
	"fmt"
	"sync"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerValidatorsOnce sync.Once
	registerValidatorsErr  error
)

// RegisterValidators adds the engine's custom binding tags to gin's validator:
// decimal4 accepts exact decimal text with at most four places, quantity accepts a
// positive decimal quantity, taxmode accepts EXCLUSIVE or INCLUSIVE. Empty strings
// pass decimal4 and quantity so presence stays with the required_* tags.
func RegisterValidators() error {
	registerValidatorsOnce.Do(func() {
		registerValidatorsErr = registerValidators(binding.Validator.Engine())
	})
	return registerValidatorsErr
}

func registerValidators(engine any) error {
	v, ok := engine.(*validator.Validate)
	if !ok {
		return fmt.Errorf("binding engine is %T, not *validator.Validate", engine)
	}
	return errors.Join(
		v.RegisterValidation("decimal4", validateDecimal4),
		v.RegisterValidation("quantity", validateQuantity),
		v.RegisterValidation("taxmode", validateTaxMode),
	)
}

func validateDecimal4(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := domain.ParseMoney(s)
	return err == nil
}

func validateQuantity(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := domain.ParseQuantity(s)
	return err == nil
}

func validateTaxMode(fl validator.FieldLevel) bool {
	_, err := domain.ParseTaxMode(fl.Field().String())
	return err == nil
}
