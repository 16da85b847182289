package suite

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	probeerrors "github.com/alexisbeaulieu97/probe/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern     = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
			return identifierPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Validate performs schema and cross-field validation on a suite.
func Validate(s *Suite) error {
	if s == nil {
		return probeerrors.NewValidationError("suite", "suite is nil", nil)
	}

	if err := validatorInstance().Struct(s); err != nil {
		return convertValidationError(err)
	}

	classes := make(map[string]struct{}, len(s.Classes))
	for i, class := range s.Classes {
		if _, exists := classes[class.Name]; exists {
			return probeerrors.NewValidationError(fieldForClass(i, "name"), fmt.Sprintf("duplicate class name %q", class.Name), nil)
		}
		classes[class.Name] = struct{}{}

		for j, hook := range append(append([]Hook(nil), class.BeforeEach...), class.AfterEach...) {
			if len(hook.Action.When) > 0 {
				return probeerrors.NewValidationError(fieldForClass(i, fmt.Sprintf("hooks[%d].action.when", j)), "hooks declare no parameters to match", nil)
			}
		}

		methods := make(map[string]struct{}, len(class.Methods))
		for j, method := range class.Methods {
			if _, exists := methods[method.Name]; exists {
				return probeerrors.NewValidationError(fieldForMethod(i, j, "name"), fmt.Sprintf("duplicate method name %q", method.Name), nil)
			}
			methods[method.Name] = struct{}{}

			if err := validateMethod(i, j, method); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateMethod(classIndex, methodIndex int, method Method) error {
	declared := make(map[string]struct{}, len(method.Params))
	for _, p := range method.Params {
		if _, exists := declared[p]; exists {
			return probeerrors.NewValidationError(fieldForMethod(classIndex, methodIndex, "params"), fmt.Sprintf("duplicate parameter %q", p), nil)
		}
		declared[p] = struct{}{}
	}

	for name := range method.Values {
		if _, ok := declared[name]; !ok {
			return probeerrors.NewValidationError(fieldForMethod(classIndex, methodIndex, "values"), fmt.Sprintf("values given for undeclared parameter %q", name), nil)
		}
	}

	for name := range method.Action.When {
		if _, ok := declared[name]; !ok {
			return probeerrors.NewValidationError(fieldForMethod(classIndex, methodIndex, "action.when"), fmt.Sprintf("condition on undeclared parameter %q", name), nil)
		}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return probeerrors.NewValidationError(field, msg, err)
	}

	return probeerrors.NewValidationError("suite", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

func fieldForClass(index int, field string) string {
	return fmt.Sprintf("classes[%d].%s", index, field)
}

func fieldForMethod(classIndex, methodIndex int, field string) string {
	return fmt.Sprintf("classes[%d].methods[%d].%s", classIndex, methodIndex, field)
}
