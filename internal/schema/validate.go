package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldIssue описывает одну проблему во входных данных.
type FieldIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError — ошибка входных данных клиента (HTTP 422).
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(is.Loc, "."), is.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(issues ...FieldIssue) *ValidationError {
	return &ValidationError{Issues: issues}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в ошибках используем имена полей из json-тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeUserCreate читает и валидирует тело запроса на создание пользователя.
func DecodeUserCreate(r io.Reader) (UserCreate, error) {
	var in UserCreate
	if err := decodeAndValidate(r, &in); err != nil {
		return UserCreate{}, err
	}
	return in, nil
}

// DecodeUserBase читает и валидирует тело запроса на обновление пользователя.
func DecodeUserBase(r io.Reader) (UserBase, error) {
	var in UserBase
	if err := decodeAndValidate(r, &in); err != nil {
		return UserBase{}, err
	}
	return in, nil
}

// ParseUserID разбирает {id} из пути.
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, newValidationError(FieldIssue{
			Loc:  []string{"path", "user_id"},
			Msg:  "value is not a valid integer",
			Type: "type_error.integer",
		})
	}
	return id, nil
}

func decodeAndValidate(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	// после объекта допускаются только пробелы
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return newValidationError(FieldIssue{
			Loc:  []string{"body"},
			Msg:  "invalid JSON: unexpected data after the top-level value",
			Type: "value_error.jsondecode",
		})
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		issues := make([]FieldIssue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, fieldIssue(fe))
		}
		return newValidationError(issues...)
	}
	return nil
}

func fieldIssue(fe validator.FieldError) FieldIssue {
	is := FieldIssue{Loc: []string{"body", fe.Field()}}
	switch fe.Tag() {
	case "required":
		is.Msg = "field required"
		is.Type = "value_error.missing"
	default:
		is.Msg = fmt.Sprintf("failed on the %q rule", fe.Tag())
		is.Type = "value_error." + fe.Tag()
	}
	return is
}

func decodeError(err error) error {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.Is(err, io.EOF):
		return newValidationError(FieldIssue{
			Loc:  []string{"body"},
			Msg:  "field required",
			Type: "value_error.missing",
		})
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return newValidationError(FieldIssue{
				Loc:  []string{"body"},
				Msg:  "value is not a valid dict",
				Type: "type_error.dict",
			})
		}
		return newValidationError(typeIssue(typeErr))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return newValidationError(FieldIssue{
			Loc:  []string{"body"},
			Msg:  "invalid JSON: " + err.Error(),
			Type: "value_error.jsondecode",
		})
	default:
		return newValidationError(FieldIssue{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		})
	}
}

func typeIssue(e *json.UnmarshalTypeError) FieldIssue {
	loc := append([]string{"body"}, strings.Split(e.Field, ".")...)
	switch e.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FieldIssue{Loc: loc, Msg: "value is not a valid integer", Type: "type_error.integer"}
	case reflect.String:
		return FieldIssue{Loc: loc, Msg: "str type expected", Type: "type_error.str"}
	default:
		return FieldIssue{Loc: loc, Msg: "value has the wrong type", Type: "type_error"}
	}
}
