package serverutils

import (
	"fmt"
	"strings"

	"estate-listing-be/pkg/richtext"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// richtext accepts an empty string or a well-formed serialized document.
	_ = v.RegisterValidation("richtext", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if strings.TrimSpace(s) == "" {
			return true
		}
		_, err := richtext.Deserialize(s)
		return err == nil
	})
	return v
}

// ValidateRequest checks struct tags and turns the first failures into a
// 400 fiber error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fiber.NewError(fiber.StatusBadRequest, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "richtext":
		return fmt.Sprintf("%s is not a valid description document", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
}
