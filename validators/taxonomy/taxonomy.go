package taxonomyValidator

import (
	"atomixlab/middleware"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func init() {
	// Report errors under the wire field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// TaxonomyRequest is the create/update body shared by sessions, niveaux
// scolaires and thematiques
type TaxonomyRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type ReassignRequest struct {
	NewID string `json:"newId" validate:"required,uuid"`
}

// TaxonomyBody validator middleware, shared by the three taxonomy route groups
func TaxonomyBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TaxonomyRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)

		if errors := validationErrors(validate.Struct(reqData)); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTaxonomy", reqData)
		return c.Next()
	}
}

// Reassign validator middleware for the reassign-and-delete body
func Reassign() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReassignRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validationErrors(validate.Struct(reqData)); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReassign", reqData)
		return c.Next()
	}
}

func validationErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["body"] = "Invalid request body!"
		return errors
	}

	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			errors[fe.Field()] = "This field is required!"
		case "uuid":
			errors[fe.Field()] = "Must be a valid identifier!"
		default:
			errors[fe.Field()] = "Invalid value!"
		}
	}
	return errors
}
