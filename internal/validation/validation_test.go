package validation

import (
	"testing"

	"github.com/KaiserWerk/CertMaker-Submitter/internal/entity"

	"github.com/stretchr/testify/assert"
)

func validSubject() entity.SubjectData {
	return entity.SubjectData{
		CommonName:         "Jane Doe",
		Organization:       "Acme 1",
		OrganizationalUnit: "IT",
		Country:            "US",
		State:              "CA",
		Locality:           "Metropolis",
		EmailAddress:       "jane@acme.com",
		CertificateType:    entity.CertificateTypeCA,
	}
}

func TestValidateAcceptsValidSubject(t *testing.T) {
	assert.Empty(t, Validate(validSubject()))
}

func TestValidateCommonName(t *testing.T) {
	for _, cn := range []string{"Jane Doe 2", "R2D2", "Jane_Doe", "jane@acme", "O'Neil", ""} {
		t.Run(cn, func(t *testing.T) {
			sd := validSubject()
			sd.CommonName = cn
			res := Validate(sd)
			assert.Equal(t, entity.ValidationResult{
				entity.FieldCommonName: "Common Name should contain alphabets only",
			}, res)
		})
	}
}

func TestValidateTextFields(t *testing.T) {
	tests := []struct {
		field   string
		set     func(sd *entity.SubjectData, v string)
		message string
	}{
		{
			field:   entity.FieldOrganization,
			set:     func(sd *entity.SubjectData, v string) { sd.Organization = v },
			message: "Organization should contain alphanumeric characters and spaces only",
		},
		{
			field:   entity.FieldOrganizationalUnit,
			set:     func(sd *entity.SubjectData, v string) { sd.OrganizationalUnit = v },
			message: "Organizational Unit should contain alphanumeric characters and spaces only",
		},
		{
			field:   entity.FieldLocality,
			set:     func(sd *entity.SubjectData, v string) { sd.Locality = v },
			message: "Locality should contain alphanumeric characters and spaces only",
		},
	}

	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			sd := validSubject()
			tc.set(&sd, "Acme, Inc.")
			assert.Equal(t, entity.ValidationResult{tc.field: tc.message}, Validate(sd))

			tc.set(&sd, "")
			assert.Equal(t, entity.ValidationResult{tc.field: tc.message}, Validate(sd))

			tc.set(&sd, "Building 42")
			assert.Empty(t, Validate(sd))
		})
	}
}

func TestValidateEmailAddress(t *testing.T) {
	invalid := []string{"not-an-email", "jane.acme.com", "jane@acme", "jane@acme.c", "jane@acme.c0m", "@acme.com", ""}
	for _, email := range invalid {
		t.Run(email, func(t *testing.T) {
			sd := validSubject()
			sd.EmailAddress = email
			assert.Equal(t, entity.ValidationResult{
				entity.FieldEmailAddress: "Invalid email address",
			}, Validate(sd))
		})
	}

	for _, email := range []string{"jane.doe+certs@mail.acme.io", "J_D%1@a-b.org"} {
		sd := validSubject()
		sd.EmailAddress = email
		assert.Empty(t, Validate(sd), email)
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	res := Validate(entity.NewSubjectData())
	assert.Equal(t, []string{
		entity.FieldCommonName,
		entity.FieldEmailAddress,
		entity.FieldLocality,
		entity.FieldOrganization,
		entity.FieldOrganizationalUnit,
	}, res.Fields())
}

func TestValidateIgnoresUnvalidatedFields(t *testing.T) {
	sd := validSubject()
	sd.Country = "!!"
	sd.State = ""
	sd.CertificateType = "bogus"
	assert.Empty(t, Validate(sd))
}

func TestValidateIsDeterministic(t *testing.T) {
	sd := validSubject()
	sd.CommonName = "J4ne"
	sd.EmailAddress = "nope"

	first := Validate(sd)
	second := Validate(sd)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestValidateUnicodeWhitespace(t *testing.T) {
	for _, name := range []string{"Jane\u00a0Doe", "Jane\vDoe", "Jane\u2003Doe", "Jane\u3000Doe", "Jane\u2028Doe", "\ufeffJane Doe"} {
		sd := validSubject()
		sd.CommonName = name
		sd.Organization = "Acme\u00a01"
		sd.Locality = "Metro\u202fpolis"
		assert.Empty(t, Validate(sd), "%q", name)
	}

	// zero width space is a format character, not a separator
	sd := validSubject()
	sd.CommonName = "Jane\u200bDoe"
	assert.Contains(t, Validate(sd), entity.FieldCommonName)
}
