package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bapi-mapper/execution"
	"bapi-mapper/internal/validation"
	"bapi-mapper/model"
)

var ErrValidation = errors.New("validation failed")

// Call is the state of one execution passed to interceptors. Function is
// nil before the bean has been bound.
type Call struct {
	Bean     any
	Mapping  *model.FunctionMapping
	Function *execution.Function
}

// ExecutionInterceptor hooks into Session.Execute. An error from either
// method aborts the execution and is returned to the caller.
type ExecutionInterceptor interface {
	// BeforeExecution runs before the bean is bound to the call.
	BeforeExecution(ctx context.Context, call *Call) error
	// AfterExecution runs after the results are written to the bean.
	AfterExecution(ctx context.Context, call *Call) error
}

// ValidationInterceptor checks `validate` tags of the bean: everything
// except export parameters before the call, and the whole bean after it.
// Messages name fields by their SAP names.
type ValidationInterceptor struct {
	validator *validation.Validator
}

// NewValidationInterceptor creates a validation interceptor.
func NewValidationInterceptor() *ValidationInterceptor {
	return &ValidationInterceptor{validator: validation.New(validation.SAPName)}
}

func (v *ValidationInterceptor) BeforeExecution(ctx context.Context, call *Call) error {
	if err := v.validator.StructExcept(ctx, call.Bean, exportPaths(call.Mapping)...); err != nil {
		return fmt.Errorf("%w before calling %s: %w", ErrValidation, call.Mapping.Name(), err)
	}

	return nil
}

func (v *ValidationInterceptor) AfterExecution(ctx context.Context, call *Call) error {
	if err := v.validator.Struct(ctx, call.Bean); err != nil {
		return fmt.Errorf("%w after calling %s: %w", ErrValidation, call.Mapping.Name(), err)
	}

	return nil
}

// exportPaths returns the dotted Go field paths of the export parameters,
// e.g. "Return" or "paging.MaxRows" for a promoted field.
func exportPaths(fm *model.FunctionMapping) []string {
	t := fm.AssociatedType()
	exports := fm.ExportParameters()

	paths := make([]string, 0, len(exports))
	for _, p := range exports {
		index := p.FieldIndex()
		names := make([]string, 0, len(index))

		for i := range index {
			names = append(names, t.FieldByIndex(index[:i+1]).Name)
		}

		paths = append(paths, strings.Join(names, "."))
	}

	return paths
}

var _ ExecutionInterceptor = (*ValidationInterceptor)(nil)
