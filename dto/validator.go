package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/whsper-labs/whsper_api/model"
)

var validate *validator.Validate

var accountRegex = regexp.MustCompile(`^[A-Za-z0-9_:-]{1,64}$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("account", validateAccount)
	validate.RegisterValidation("action", validateAction)
}

func GetValidator() *validator.Validate {
	return validate
}

func validateAccount(fl validator.FieldLevel) bool {
	return IsValidAccount(fl.Field().String())
}

func IsValidAccount(account string) bool {
	return accountRegex.MatchString(account)
}

func validateAction(fl validator.FieldLevel) bool {
	_, err := model.ParseActionType(fl.Field().String())
	return err == nil
}

func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			var message string

			switch fieldError.Tag() {
			case "required":
				message = fieldError.Field() + " is required"
			case "min":
				message = fieldError.Field() + " must be at least " + fieldError.Param()
			case "max":
				message = fieldError.Field() + " must be at most " + fieldError.Param()
			case "gt":
				message = fieldError.Field() + " must be greater than " + fieldError.Param()
			case "account":
				message = fieldError.Field() + " must be 1-64 letters, digits, '_', ':' or '-'"
			case "action":
				message = fieldError.Field() + " must be one of: message tip transfer tip_received"
			case "oneof":
				message = fieldError.Field() + " must be one of: " + fieldError.Param()
			default:
				message = fieldError.Field() + " is invalid"
			}

			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Message: message,
			})
		}
	}

	return errors
}

type Validator interface {
	Validate() error
}

type ValidationError struct {
	Field   string `json:"field" example:"amount"`
	Message string `json:"message" example:"amount must be greater than 0"`
}

type ErrorResponse struct {
	Code    int         `json:"code" example:"400"`
	Message string      `json:"message" example:"Invalid request"`
	Error   string      `json:"error,omitempty" example:"CLAIM_EXPIRED"`
	Data    interface{} `json:"data,omitempty"`
}
