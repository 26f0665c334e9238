package theme

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/promptkit/internal/color"
	"github.com/alexisbeaulieu97/promptkit/internal/symbols"
	"github.com/alexisbeaulieu97/promptkit/internal/template"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	namePattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)
	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z-.]+)?$`)
)

// ValidName reports whether name can identify a theme: lowercase letters,
// digits, '-' and '_', starting with a letter or digit, at most 64 bytes.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// validatorInstance configures the validator shared by the file loader.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("theme_name", func(fl validator.FieldLevel) bool {
			return ValidName(fl.Field().String())
		})

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("capability", func(fl validator.FieldLevel) bool {
			_, ok := ParseCapability(fl.Field().String())
			return ok
		})

		_ = v.RegisterValidation("color_slot", func(fl validator.FieldLevel) bool {
			var s ColorScheme
			_, ok := s.Lookup(fl.Field().String())
			return ok
		})

		_ = v.RegisterValidation("syntax_slot", func(fl validator.FieldLevel) bool {
			var s SyntaxScheme
			_, ok := s.Lookup(fl.Field().String())
			return ok
		})

		_ = v.RegisterValidation("symbol_name", func(fl validator.FieldLevel) bool {
			var s symbols.Set
			_, ok := s.Get(fl.Field().String())
			return ok
		})

		_ = v.RegisterValidation("color_spec", func(fl validator.FieldLevel) bool {
			_, err := color.Parse(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("prompt_template", func(fl validator.FieldLevel) bool {
			return template.CheckBraces(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}
