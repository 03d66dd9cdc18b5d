package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
)

var standalone = validator.New()

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags and enum validations for request payloads.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("otpcode", "len=6,numeric")
	_ = v.RegisterValidation("primarygoal", func(fl validator.FieldLevel) bool {
		return entity.PrimaryGoal(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("plantype", func(fl validator.FieldLevel) bool {
		_, ok := entity.LookupPlan(entity.PlanType(fl.Field().String()))
		return ok
	})
}

func init() {
	register(standalone)
}

// Email reports whether s is a syntactically valid address.
func Email(s string) bool {
	return standalone.Var(s, "required,email") == nil
}

// Struct validates any struct with the same rules gin binding uses.
func Struct(s any) error {
	return standalone.Struct(s)
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fieldPath(fe)] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// fieldPath drops the root struct name: "onboardingRequest.fullName" -> "fullName".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "otpcode":
		return "must be a 6-digit code"
	case "primarygoal":
		return "must be one of: " + strings.Join(goalNames(), ", ")
	case "plantype":
		return "must be one of: starter, growth, scale"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gte":
		return "must be greater than or equal to " + param
	case "numeric":
		return "must be numeric"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "unique":
		return "must not contain duplicates"
	default:
		return "is invalid"
	}
}

func goalNames() []string {
	out := make([]string, 0, len(entity.PrimaryGoals))
	for _, g := range entity.PrimaryGoals {
		out = append(out, string(g))
	}
	return out
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
