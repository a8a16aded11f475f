package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	phoneRegex       = regexp.MustCompile(`^(\+62|62|0)8\d{7,11}$`)
	packageCodeRegex = regexp.MustCompile(`^UMR\d{3,6}$`)
)

// RegisterCustomValidations registers the domain validation rules on the
// shared validator instance.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("phone_id", isIndonesianPhoneNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("package_code", isPackageCode); err != nil {
		return err
	}
	if err := v.RegisterValidation("document_type", isDocumentType); err != nil {
		return err
	}
	if err := v.RegisterValidation("pipeline_stage", isPipelineStage); err != nil {
		return err
	}
	return nil
}

func isIndonesianPhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func isPackageCode(fl validator.FieldLevel) bool {
	return packageCodeRegex.MatchString(fl.Field().String())
}

var documentTypes = map[string]bool{
	"passport":    true,
	"ktp":         true,
	"visa":        true,
	"photo":       true,
	"medical":     true,
	"certificate": true,
	"other":       true,
}

func isDocumentType(fl validator.FieldLevel) bool {
	return documentTypes[fl.Field().String()]
}

var pipelineStages = map[string]bool{
	"leads":    true,
	"interest": true,
	"booked":   true,
}

func isPipelineStage(fl validator.FieldLevel) bool {
	return pipelineStages[fl.Field().String()]
}
