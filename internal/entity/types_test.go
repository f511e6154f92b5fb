package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubjectDataDefaults(t *testing.T) {
	sd := NewSubjectData()
	assert.Equal(t, CertificateTypeSigned, sd.CertificateType)
	assert.Empty(t, sd.CommonName)
	assert.Empty(t, sd.EmailAddress)
}

func TestReset(t *testing.T) {
	sd := SubjectData{
		CommonName:      "Jane Doe",
		Country:         "US",
		CertificateType: CertificateTypeCA,
	}
	sd.Reset()
	assert.Equal(t, NewSubjectData(), sd)
}

func TestSet(t *testing.T) {
	sd := NewSubjectData()
	require.NoError(t, sd.Set(FieldCommonName, "Jane Doe"))
	require.NoError(t, sd.Set(FieldState, "CA"))
	require.NoError(t, sd.Set(FieldCertificateType, "self-signed"))

	assert.Equal(t, "Jane Doe", sd.CommonName)
	assert.Equal(t, "CA", sd.State)
	assert.Equal(t, CertificateTypeSelfSigned, sd.CertificateType)

	err := sd.Set("serialNumber", "1")
	assert.ErrorIs(t, err, ErrUnknownField)

	err = sd.Set(FieldCertificateType, "intermediate")
	assert.ErrorIs(t, err, ErrUnknownCertificateType)
	assert.Equal(t, CertificateTypeSelfSigned, sd.CertificateType)
}

func TestParseCertificateType(t *testing.T) {
	tests := []struct {
		in      string
		want    CertificateType
		wantErr bool
	}{
		{in: "", want: CertificateTypeSigned},
		{in: "signed", want: CertificateTypeSigned},
		{in: "self-signed", want: CertificateTypeSelfSigned},
		{in: "CA", want: CertificateTypeCA},
		{in: "unsigned", want: CertificateTypeUnsigned},
		{in: "ca", wantErr: true},
		{in: "Unsigned", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseCertificateType(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCertificateType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRequestOmitsCertificateType(t *testing.T) {
	sd := SubjectData{
		CommonName:         "Jane Doe",
		Organization:       "Acme 1",
		OrganizationalUnit: "IT",
		Country:            "US",
		State:              "CA",
		Locality:           "Metropolis",
		EmailAddress:       "jane@acme.com",
		CertificateType:    CertificateTypeCA,
	}

	b, err := json.Marshal(sd.Request())
	require.NoError(t, err)

	var m map[string]string
	require.NoError(t, json.Unmarshal(b, &m))

	assert.NotContains(t, m, FieldCertificateType)
	assert.Equal(t, map[string]string{
		FieldCommonName:         "Jane Doe",
		FieldOrganization:       "Acme 1",
		FieldOrganizationalUnit: "IT",
		FieldCountry:            "US",
		FieldState:              "CA",
		FieldLocality:           "Metropolis",
		FieldEmailAddress:       "jane@acme.com",
	}, m)
}

func TestString(t *testing.T) {
	sd := SubjectData{CommonName: "Jane Doe", Country: "US", Organization: "Acme"}
	assert.Equal(t, "/C=US/O=Acme/CN=Jane Doe", sd.String())
	assert.Equal(t, "/", NewSubjectData().String())
}

func TestValidationResultFields(t *testing.T) {
	vr := ValidationResult{FieldLocality: "x", FieldCommonName: "y"}
	assert.False(t, vr.Valid())
	assert.Equal(t, []string{FieldCommonName, FieldLocality}, vr.Fields())
	assert.True(t, ValidationResult{}.Valid())
}
