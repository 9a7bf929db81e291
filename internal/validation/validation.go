// Package validation wraps go-playground/validator with English messages and
// field names taken from struct tags.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"

	"bapi-mapper/internal/tag"
)

const nested = "__nested__"

// NameFunc names a struct field in error messages.
type NameFunc func(reflect.StructField) string

// SAPName names fields by their `sap` tag name, falling back to the Go name.
func SAPName(fld reflect.StructField) string {
	ann, ok, err := tag.Lookup(fld.Tag)
	if err != nil || !ok || ann.Name == "" {
		return fld.Name
	}

	return ann.Name
}

// YAMLName names fields by their `yaml` tag name.
func YAMLName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}

	return name
}

// Validator checks `validate` tags.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New creates a validator naming fields with name.
func New(name NameFunc) *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	translator, found := ut.New(enLocale, enLocale).GetTranslator("en")
	if !found {
		panic(fmt.Errorf("en translator was not found"))
	}

	if err := enTranslation.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(fmt.Errorf("translator was not registered: %w", err))
	}

	// embedded structs are dropped from error namespaces
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if fld.Anonymous {
			return nested
		}

		return name(fld)
	})

	return &Validator{validate: validate, translator: translator}
}

// Struct validates value, a struct or pointer to one. All violations are
// returned joined, each prefixed with the path of its parent field.
func (v *Validator) Struct(ctx context.Context, value any) error {
	return v.translate(v.validate.StructCtx(ctx, value))
}

// StructExcept is like Struct but skips the listed fields. Fields are given
// by Go field names relative to value, e.g. "Return" or "paging.MaxRows".
func (v *Validator) StructExcept(ctx context.Context, value any, fields ...string) error {
	return v.translate(v.validate.StructExceptCtx(ctx, value, fields...))
}

func (v *Validator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		prefix := ""
		if namespace := parentNamespace(e.Namespace()); namespace != "" {
			prefix = namespace + "."
		}

		errs = append(errs, fmt.Errorf("%s%s", prefix, e.Translate(v.translator)))
	}

	return errors.Join(errs...)
}

// parentNamespace removes the struct name, the field name and embedded
// struct parts from a validator namespace.
func parentNamespace(namespace string) string {
	namespace = strings.ReplaceAll(namespace, nested+".", "")

	parts := strings.Split(namespace, ".")
	if len(parts) <= 2 {
		return ""
	}

	return strings.Join(parts[1:len(parts)-1], ".")
}
