package utils

import (
	"context"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// reuse gin's binding tags so inputs validate identically on both paths
	v.SetTagName("binding")
	return v
}

// check if id exists, using ctx's business_id in WHERE, returns RecordNotFound error
func ValidateResourceId[T any](ctx context.Context, businessId string, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, businessId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

// ValidateStruct applies the struct's binding tags outside of gin (CLI, tests,
// workflow callers). gin runs the same validator on bound request bodies.
func ValidateStruct(input interface{}) error {
	return validate.Struct(input)
}
