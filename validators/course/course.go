package courseValidator

import (
	"atomixlab/middleware"
	"atomixlab/models"
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

type CreateCourseRequest struct {
	Title          string `json:"title" validate:"required"`
	Session        string `json:"session" validate:"required,uuid"`
	NiveauScolaire string `json:"niveauScolaire" validate:"required,uuid"`
	Thematique     string `json:"thematique" validate:"required,uuid"`
	Type           string `json:"type" validate:"required"`
	Description    string `json:"description"`
	URLDownload    string `json:"urlDownload" validate:"required"`
}

// UpdateCourseRequest is a partial patch; nil pointers mean "leave unchanged"
type UpdateCourseRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=1"`
	Session        *string `json:"session" validate:"omitempty,uuid"`
	NiveauScolaire *string `json:"niveauScolaire" validate:"omitempty,uuid"`
	Thematique     *string `json:"thematique" validate:"omitempty,uuid"`
	Type           *string `json:"type" validate:"omitempty"`
	Description    *string `json:"description"`
	URLDownload    *string `json:"urlDownload" validate:"omitempty,min=1"`
}

// CreateCourse validator middleware
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.URLDownload = strings.TrimSpace(reqData.URLDownload)

		errors := validationErrors(validate.Struct(reqData))
		if reqData.Type != "" && !isValidCourseType(reqData.Type) {
			errors = appendError(errors, "type", courseTypeMessage)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validator middleware
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validationErrors(validate.Struct(reqData))
		if reqData.Type != nil && !isValidCourseType(*reqData.Type) {
			errors = appendError(errors, "type", courseTypeMessage)
		}
		if emptyPatch(reqData) {
			errors = appendError(errors, "body", "At least one field is required!")
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

const courseTypeMessage = "Type must be \"Chimie\", \"Physique\" or \"Rappel de connaissance\"!"

func isValidCourseType(t string) bool {
	switch t {
	case models.CourseTypeChimie, models.CourseTypePhysique, models.CourseTypeRappel:
		return true
	}
	return false
}

func emptyPatch(r *UpdateCourseRequest) bool {
	return r.Title == nil && r.Session == nil && r.NiveauScolaire == nil &&
		r.Thematique == nil && r.Type == nil && r.Description == nil && r.URLDownload == nil
}

func appendError(errors map[string]string, field, message string) map[string]string {
	if errors == nil {
		errors = make(map[string]string)
	}
	errors[field] = message
	return errors
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
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			errors[field] = "This field is required!"
		case "uuid":
			errors[field] = "Must be a valid identifier!"
		case "min":
			errors[field] = "Must not be empty!"
		default:
			errors[field] = "Invalid value!"
		}
	}
	return errors
}
