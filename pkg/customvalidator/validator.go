// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"reflect"
	"regexp"
	"strings"

	"inventory-system/internal/entities"

	"github.com/go-playground/validator/v10"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	macRegex   = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()\-]+$`)
	nonDigit   = regexp.MustCompile(`\D`)
)

// EchoValidator подключает validator к echo.Echo
type EchoValidator struct {
	validate *validator.Validate
}

func NewEchoValidator(v *validator.Validate) *EchoValidator {
	return &EchoValidator{validate: v}
}

func (ev *EchoValidator) Validate(i interface{}) error {
	return ev.validate.Struct(i)
}

// RegisterCustomValidations регистрирует правила предметной области
// и переключает имена полей в сообщениях на json-теги.
func RegisterCustomValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"email":                 isGoodEmailFormat,
		"mac_addr":              isMacAddress,
		"employee_phone":        isEmployeePhone,
		"notblank":              isNotBlank,
		"equipment_category":    isEquipmentCategory,
		"equipment_status":      isEquipmentStatus,
		"description_for_other": validateDescriptionForOther,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn, tag == "description_for_other"); err != nil {
			return err
		}
	}

	return nil
}

func stringValue(field reflect.Value) (string, bool) {
	switch field.Kind() {
	case reflect.String:
		return field.String(), true
	case reflect.Ptr:
		if field.IsNil() {
			return "", false
		}
		return field.Elem().String(), true
	}
	return "", false
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	s, _ := stringValue(fl.Field())
	return emailRegex.MatchString(s)
}

func isMacAddress(fl validator.FieldLevel) bool {
	s, _ := stringValue(fl.Field())
	return macRegex.MatchString(s)
}

// isEmployeePhone: цифры, пробелы, скобки, дефисы и ведущий +; минимум 3 цифры
func isEmployeePhone(fl validator.FieldLevel) bool {
	s, _ := stringValue(fl.Field())
	if !phoneRegex.MatchString(s) {
		return false
	}
	return len(nonDigit.ReplaceAllString(s, "")) >= 3
}

func isNotBlank(fl validator.FieldLevel) bool {
	s, _ := stringValue(fl.Field())
	return strings.TrimSpace(s) != ""
}

func isEquipmentCategory(fl validator.FieldLevel) bool {
	s, _ := stringValue(fl.Field())
	return entities.IsValidCategory(s)
}

func isEquipmentStatus(fl validator.FieldLevel) bool {
	s, _ := stringValue(fl.Field())
	return entities.EquipmentStatus(s).IsValid()
}

// validateDescriptionForOther: для категории Other описание обязательно.
// Правило вешается на поле Description, категория берётся из соседнего поля Category.
func validateDescriptionForOther(fl validator.FieldLevel) bool {
	category := fl.Parent().FieldByName("Category")
	if !category.IsValid() {
		return true
	}
	c, ok := stringValue(category)
	if !ok || c != entities.CategoryOther {
		return true
	}
	description, _ := stringValue(fl.Field())
	return strings.TrimSpace(description) != ""
}
