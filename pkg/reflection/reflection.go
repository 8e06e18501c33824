package reflection

import "reflect"

type Field struct {
  reflect.StructField
  Value reflect.Value
}

// ExportedFields lists the exported fields of a struct or a pointer to one, anything else yields nil.
func ExportedFields(document any) []Field {
  value := reflect.Indirect(reflect.ValueOf(document))

  if value.Kind() != reflect.Struct {
    return nil
  }
  typ := value.Type()

  fields := make([]Field, 0, typ.NumField())

  for i := 0; i < typ.NumField(); i++ {
    field := typ.Field(i)

    if !field.IsExported() {
      continue
    }
    fields = append(fields, Field{
      StructField: field,
      Value:       value.Field(i),
    })
  }

  return fields
}

// IsZero treats empty slices, channels and maps as zero along with zero values.
func IsZero(value reflect.Value) bool {
  switch value.Kind() {
  case reflect.Slice, reflect.Chan, reflect.Map:
    return value.Len() == 0
  default:
    return value.IsZero()
  }
}

// NewOf returns a pointer to a new zero value of the type of sample, sample itself may be a pointer.
func NewOf(sample any) any {
  typ := reflect.TypeOf(sample)

  if typ.Kind() == reflect.Ptr {
    typ = typ.Elem()
  }
  return reflect.New(typ).Interface()
}
