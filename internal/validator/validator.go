package validator

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/studentflow/studentflow-backend/internal/model"
)

var (
	// trans is the singleton English translator for validation errors.
	trans ut.Translator
	// validate checks model structs outside of a gin request.
	validate *govalidator.Validate
	once     sync.Once
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps a JSON field name to a human-readable message.
type FieldErrors map[string]string

// Error implements error so field errors can travel through error returns.
func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Setup registers the custom rules and English translations on both the
// standalone validator and Gin's binding engine. Safe to call repeatedly.
func Setup() {
	once.Do(func() {
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")

		validate = govalidator.New(govalidator.WithRequiredStructEnabled())
		configure(validate)

		if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
			configure(v)
		}
	})
}

func configure(v *govalidator.Validate) {
	// Use JSON tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	rules := []struct {
		tag     string
		fn      govalidator.Func
		message string
	}{
		{"basic_email", isBasicEmail, "{0} must be a valid email address"},
		{"phone10", isPhone10, "{0} must contain exactly 10 digits"},
		{"isodate", isISODate, "{0} must be a date in YYYY-MM-DD format"},
		{"numrange", inNumRange, "{0} must be a number between {1} and {2}"},
	}
	for _, r := range rules {
		_ = v.RegisterValidation(r.tag, r.fn)
		registerMessage(v, r.tag, r.message)
	}
}

func registerMessage(v *govalidator.Validate, tag, message string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, message, true)
		},
		func(t ut.Translator, fe govalidator.FieldError) string {
			lo, hi, _ := strings.Cut(fe.Param(), ":")
			msg, err := t.T(tag, fe.Field(), lo, hi)
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

func isBasicEmail(fl govalidator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

func isPhone10(fl govalidator.FieldLevel) bool {
	digits := 0
	for _, r := range fl.Field().String() {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits == 10
}

func isISODate(fl govalidator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

// inNumRange expects a "lo:hi" param and a string field holding a number.
func inNumRange(fl govalidator.FieldLevel) bool {
	lo, hi, ok := strings.Cut(fl.Param(), ":")
	if !ok {
		panic(fmt.Sprintf("numrange: bad param %q", fl.Param()))
	}
	lower, err1 := strconv.ParseFloat(lo, 64)
	upper, err2 := strconv.ParseFloat(hi, 64)
	if err1 != nil || err2 != nil {
		panic(fmt.Sprintf("numrange: bad param %q", fl.Param()))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
	if err != nil || math.IsNaN(f) {
		return false
	}
	return f >= lower && f <= upper
}

// ValidateStudent checks form input and, when it passes, returns the record it
// describes. The record has no ID; the repository assigns one on create.
func ValidateStudent(in model.StudentInput) (model.StudentRecord, FieldErrors) {
	Setup()

	in = in.Trimmed()
	if err := validate.Struct(in); err != nil {
		return model.StudentRecord{}, TranslateErrors(err)
	}

	cgpa, _ := in.CGPA.Float()
	attendance, _ := in.Attendance.Float()

	return model.StudentRecord{
		RollNo:      in.RollNo,
		Name:        in.Name,
		Branch:      in.Branch,
		Year:        in.Year,
		Email:       in.Email,
		Phone:       in.Phone,
		DateOfBirth: in.DateOfBirth,
		CGPA:        cgpa,
		Attendance:  attendance,
		Address:     in.Address,
		Notes:       in.Notes,
	}, nil
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) FieldErrors {
	fields := make(FieldErrors)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) FieldErrors {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
