package businessflow

import (
	"errors"
	"reflect"
	"strings"

	"github.com/amirphl/studio-hiring-api/app/dto"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and returns nil or a *ValidationError
func validateStruct(req any) *ValidationError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newValidationError("request", err.Error())
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fieldPath(fe),
			Message: getValidationErrorMessage(fe),
		})
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the struct name prefix so nested errors read "requirements[0]"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func getValidationErrorMessage(err validator.FieldError) string {
	isList := err.Kind() == reflect.Slice || err.Kind() == reflect.Array
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "url":
		return err.Field() + " must be a valid URL"
	case "min":
		if isList {
			return err.Field() + " must contain at least " + err.Param() + " item(s)"
		}
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		if isList {
			return err.Field() + " must contain at most " + err.Param() + " item(s)"
		}
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "len":
		return err.Field() + " must be exactly " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gte":
		return err.Field() + " must be greater than or equal to " + err.Param()
	case "uppercase":
		return err.Field() + " must be uppercase"
	default:
		return err.Field() + " is invalid"
	}
}

// ValidateLoginRequest checks that both credentials are present
func ValidateLoginRequest(req *dto.AdminLoginRequest) error {
	if req == nil {
		return newValidationError("request", "request body is required")
	}
	if verr := validateStruct(req); verr != nil {
		return verr
	}
	return nil
}

func ValidateCreateJobRequest(req *dto.CreateJobRequest) error {
	if req == nil {
		return newValidationError("request", "request body is required")
	}
	var fields []FieldError
	if verr := validateStruct(req); verr != nil {
		fields = append(fields, verr.Fields...)
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		fields = append(fields, FieldError{Field: "salary_min", Message: "salary_min must not exceed salary_max"})
	}
	return fieldsToError(fields)
}

// ValidateUpdateJobRequest checks a partial update. Lists that are present
// must not be empty; salary bounds are re-checked against the stored posting
// by the caller.
func ValidateUpdateJobRequest(req *dto.UpdateJobRequest) error {
	if req == nil {
		return newValidationError("request", "request body is required")
	}
	var fields []FieldError
	if verr := validateStruct(req); verr != nil {
		fields = append(fields, verr.Fields...)
	}
	if req.Requirements != nil && len(req.Requirements) == 0 {
		fields = append(fields, FieldError{Field: "requirements", Message: "requirements must contain at least 1 item(s)"})
	}
	if req.Benefits != nil && len(req.Benefits) == 0 {
		fields = append(fields, FieldError{Field: "benefits", Message: "benefits must contain at least 1 item(s)"})
	}
	return fieldsToError(fields)
}

func ValidateSubmitApplicationRequest(req *dto.SubmitApplicationRequest) error {
	if req == nil {
		return newValidationError("request", "request body is required")
	}
	if verr := validateStruct(req); verr != nil {
		return verr
	}
	return nil
}

func ValidateUpdateApplicationRequest(req *dto.UpdateApplicationRequest) error {
	if req == nil {
		return newValidationError("request", "request body is required")
	}
	if verr := validateStruct(req); verr != nil {
		return verr
	}
	return nil
}

func ValidateSubmitContactRequest(req *dto.SubmitContactRequest) error {
	if req == nil {
		return newValidationError("request", "request body is required")
	}
	if verr := validateStruct(req); verr != nil {
		return verr
	}
	return nil
}

func ValidateUpdateContactRequest(req *dto.UpdateContactRequest) error {
	if req == nil {
		return newValidationError("request", "request body is required")
	}
	if verr := validateStruct(req); verr != nil {
		return verr
	}
	return nil
}

func ValidateCreateAdminRequest(req *dto.CreateAdminRequest) error {
	if req == nil {
		return newValidationError("request", "request body is required")
	}
	if verr := validateStruct(req); verr != nil {
		return verr
	}
	return nil
}

func ValidateUpdateAdminProfileRequest(req *dto.UpdateAdminProfileRequest) error {
	if req == nil {
		return newValidationError("request", "request body is required")
	}
	var fields []FieldError
	if verr := validateStruct(req); verr != nil {
		fields = append(fields, verr.Fields...)
	}
	if req.NewPassword != nil && (req.CurrentPassword == nil || *req.CurrentPassword == "") {
		fields = append(fields, FieldError{Field: "current_password", Message: "current_password is required to set a new password"})
	}
	return fieldsToError(fields)
}

func fieldsToError(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
