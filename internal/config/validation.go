package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/keno-analytics/internal/generator"
	"github.com/yourusername/keno-analytics/internal/rules"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("strategy", validateStrategy)
	_ = v.RegisterValidation("metric", validateMetric)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateStrategy(fl validator.FieldLevel) bool {
	return generator.IsBuiltin(fl.Field().String())
}

func validateMetric(fl validator.FieldLevel) bool {
	return rules.Metric(fl.Field().String()).Valid()
}

// validateCrossField performs validations spanning several fields
func validateCrossField(cfg *Config) error {
	g := cfg.Generator
	if g.DetectionWindow >= g.BaselineWindow {
		return fmt.Errorf("generator detection_window (%d) must be smaller than baseline_window (%d)",
			g.DetectionWindow, g.BaselineWindow)
	}

	if g.Shape != "" && g.Shape != generator.ShapeRandom {
		if _, ok := generator.ShapeOffsets(g.Shape); !ok {
			return fmt.Errorf("generator shape %q is not one of: random, %s",
				g.Shape, strings.Join(generator.ShapeNames(), ", "))
		}
	}

	if g.Rotation != "" && g.Rotation != generator.RotationRandom {
		deg, err := strconv.Atoi(g.Rotation)
		if err != nil || deg%90 != 0 {
			return fmt.Errorf("generator rotation %q must be random or a multiple of 90", g.Rotation)
		}
	}

	for i, c := range cfg.Rules.Conditions {
		if !rules.Operator(c.Operator).Valid() {
			return fmt.Errorf("rules condition %d has invalid operator %q", i+1, c.Operator)
		}
	}

	if cfg.Database.Enabled {
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database host, name and user are required when database is enabled")
		}
		if cfg.Database.Port == 0 {
			return fmt.Errorf("database port is required when database is enabled")
		}
		if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Path != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with '/'")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "strategy":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: %s\n", field, strings.Join(generator.BuiltinMethods(), ", "))
		case "metric":
			errMsg += fmt.Sprintf("- Field '%s' has unknown metric '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
