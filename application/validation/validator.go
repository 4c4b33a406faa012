// Package validation validates job configuration with go-playground/validator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	domainerrors "github.com/reglet-dev/wasmer-pipeline/domain/errors"
	"golang.org/x/mod/semver"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so errors match the config schema.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("semver", isSemver); err != nil {
		panic(fmt.Sprintf("validation: register semver: %v", err))
	}
	return v
}

// isSemver accepts release tags such as v0.1.23.
func isSemver(fl validator.FieldLevel) bool {
	return semver.IsValid(fl.Field().String())
}

// ValidateJobConfig checks cfg and returns a ConfigError for the first invalid field.
func ValidateJobConfig(cfg entities.JobConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &domainerrors.ConfigError{
			Field: fe.Field(),
			Err:   fmt.Errorf("value %q failed the %q rule", fmt.Sprint(fe.Value()), fe.Tag()),
		}
	}
	return &domainerrors.ConfigError{Err: err}
}

// ValidateCargoWasixVersion checks a version read from the environment.
// The empty string is valid and selects the default release.
func ValidateCargoWasixVersion(v string) error {
	if v == "" || semver.IsValid(v) {
		return nil
	}
	return &domainerrors.ConfigError{
		Field: entities.EnvCargoWasixVersion,
		Err:   fmt.Errorf("%q is not a semantic version tag (expected e.g. %s)", v, entities.DefaultCargoWasixVersion),
	}
}
