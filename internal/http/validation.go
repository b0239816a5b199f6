package http

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"budong-api/internal/domain"
)

// RegisterValidations adds the custom binding tags used by request structs
// to gin's validator.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	for tag, fn := range map[string]validator.Func{
		"lat":            validateLat,
		"lng":            validateLng,
		"infra_category": validateInfraCategory,
		"stats_type":     validateStatsType,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validation: %w", tag, err)
		}
	}
	return nil
}

func validateLat(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90.0 && lat <= 90.0
}

func validateLng(fl validator.FieldLevel) bool {
	lng := fl.Field().Float()
	return lng >= -180.0 && lng <= 180.0
}

func validateInfraCategory(fl validator.FieldLevel) bool {
	return domain.InfraCategory(fl.Field().String()).Valid()
}

func validateStatsType(fl validator.FieldLevel) bool {
	return domain.StatsType(fl.Field().String()).Valid()
}
