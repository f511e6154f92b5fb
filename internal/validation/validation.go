package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/KaiserWerk/CertMaker-Submitter/internal/entity"

	"github.com/go-playground/validator/v10"
)

const (
	tagCommonName = "commonname"
	tagText       = "subjecttext"
	tagEmail      = "subjectemail"
)

// whitespace matches what browsers treat as \s: ASCII whitespace, vertical
// tab, Unicode space separators, line/paragraph separators and the BOM.
const whitespace = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	commonNameRegex = regexp.MustCompile(`^[A-Za-z` + whitespace + `]+$`)
	textRegex       = regexp.MustCompile(`^[A-Za-z0-9` + whitespace + `]+$`)
	emailRegex      = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

var messages = map[string]string{
	entity.FieldCommonName:         "Common Name should contain alphabets only",
	entity.FieldOrganization:       "Organization should contain alphanumeric characters and spaces only",
	entity.FieldOrganizationalUnit: "Organizational Unit should contain alphanumeric characters and spaces only",
	entity.FieldLocality:           "Locality should contain alphanumeric characters and spaces only",
	entity.FieldEmailAddress:       "Invalid email address",
}

// subject carries the rules for the validated fields. Country, state and
// certificate type are left to whoever populates them.
type subject struct {
	CommonName         string `json:"commonName" validate:"commonname"`
	Organization       string `json:"organization" validate:"subjecttext"`
	OrganizationalUnit string `json:"organizationalUnit" validate:"subjecttext"`
	Locality           string `json:"locality" validate:"subjecttext"`
	EmailAddress       string `json:"emailAddress" validate:"subjectemail"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation(tagCommonName, matches(commonNameRegex)))
	must(v.RegisterValidation(tagText, matches(textRegex)))
	must(v.RegisterValidation(tagEmail, matches(emailRegex)))

	return v
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate checks every subject field rule and returns one message per
// invalid field. It does not stop at the first failure.
func Validate(data entity.SubjectData) entity.ValidationResult {
	result := entity.ValidationResult{}

	err := validate.Struct(subject{
		CommonName:         data.CommonName,
		Organization:       data.Organization,
		OrganizationalUnit: data.OrganizationalUnit,
		Locality:           data.Locality,
		EmailAddress:       data.EmailAddress,
	})
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// only reachable with a broken rule set
		panic(err)
	}

	for _, fe := range fieldErrs {
		result[fe.Field()] = messages[fe.Field()]
	}

	return result
}
