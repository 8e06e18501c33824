package validator

import (
  "github.com/go-playground/validator/v10"
)

// validate caches struct metadata, one instance serves the whole process.
var validate = validator.New()

func Struct(value any) error {
  return validate.Struct(value)
}
