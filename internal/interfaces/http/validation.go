package http

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Facturador-api/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "query"} {
			tag := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if tag != "" && tag != "-" {
				return tag
			}
		}
		return f.Name
	})
	return v
}

// requestError error de entrada detectado en la capa HTTP (body, params, query).
type requestError struct {
	code    string
	message string
	fields  []dto.FieldError
}

func (e *requestError) Error() string { return e.message }

func (e *requestError) write(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    e.code,
		Message: e.message,
		Fields:  e.fields,
	})
}

// bindJSON parsea el body y aplica las reglas `validate` del DTO.
func bindJSON(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return &requestError{code: "INVALID_BODY", message: "cuerpo inválido"}
	}
	return validateStruct(dest)
}

func validateStruct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]dto.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, dto.FieldError{Field: fieldPath(fe), Rule: fe.Tag(), Param: fe.Param()})
			}
			return &requestError{code: "VALIDATION", message: "datos inválidos", fields: fields}
		}
		return &requestError{code: "VALIDATION", message: err.Error()}
	}
	return nil
}

// pageQuery lee limit y offset del query string (por defecto 50 y 0, máximo 200).
func pageQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, &requestError{code: "VALIDATION", message: "limit y offset deben ser enteros"}
	}
	if err := validateStruct(&page); err != nil {
		return page, err
	}
	page.DefaultPage()
	return page, nil
}

// fieldPath quita el nombre del struct raíz: "SaleRequest.items[0].quantity" -> "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &requestError{code: "VALIDATION", message: "id inválido"}
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// queryDate lee un parámetro 2006-01-02; vacío devuelve nil.
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return nil, &requestError{code: "VALIDATION", message: fmt.Sprintf("%s debe tener formato YYYY-MM-DD", key)}
	}
	return &t, nil
}
