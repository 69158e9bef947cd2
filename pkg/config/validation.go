package config

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/marmos91/sharetab/pkg/transport"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// "encoding" accepts any name transport.LookupEncoding resolves.
		_ = validate.RegisterValidation("encoding", func(fl validator.FieldLevel) bool {
			_, err := transport.LookupEncoding(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Validate checks cfg against the struct tags of Config.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return getValidator().Struct(cfg)
}
