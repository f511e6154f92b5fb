package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type CertificateType string

const (
	CertificateTypeSigned     CertificateType = "signed"
	CertificateTypeSelfSigned CertificateType = "self-signed"
	CertificateTypeCA         CertificateType = "CA"
	CertificateTypeUnsigned   CertificateType = "unsigned"

	DefaultCertificateType = CertificateTypeSigned
)

// Field names as they appear in JSON payloads and validation results.
const (
	FieldCommonName         = "commonName"
	FieldOrganization       = "organization"
	FieldOrganizationalUnit = "organizationalUnit"
	FieldCountry            = "country"
	FieldState              = "state"
	FieldLocality           = "locality"
	FieldEmailAddress       = "emailAddress"
	FieldCertificateType    = "certificateType"
)

var (
	ErrUnknownCertificateType = errors.New("unknown certificate type")
	ErrUnknownField           = errors.New("unknown subject field")
)

// CertificateTypes returns all supported certificate types in display order.
func CertificateTypes() []CertificateType {
	return []CertificateType{
		CertificateTypeSigned,
		CertificateTypeSelfSigned,
		CertificateTypeCA,
		CertificateTypeUnsigned,
	}
}

// ParseCertificateType maps s onto a supported type. The empty string yields
// the default type.
func ParseCertificateType(s string) (CertificateType, error) {
	if s == "" {
		return DefaultCertificateType, nil
	}
	for _, t := range CertificateTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: '%s'", ErrUnknownCertificateType, s)
}

// SubjectData is the subject information entered by a user together with
// the selected certificate type.
type SubjectData struct {
	CommonName         string          `json:"commonName" yaml:"common_name"`
	Organization       string          `json:"organization" yaml:"organization"`
	OrganizationalUnit string          `json:"organizationalUnit" yaml:"organizational_unit"`
	Country            string          `json:"country" yaml:"country"`
	State              string          `json:"state" yaml:"state"`
	Locality           string          `json:"locality" yaml:"locality"`
	EmailAddress       string          `json:"emailAddress" yaml:"email_address"`
	CertificateType    CertificateType `json:"certificateType" yaml:"certificate_type"`
}

func NewSubjectData() SubjectData {
	return SubjectData{CertificateType: DefaultCertificateType}
}

// Reset restores the initial empty state.
func (sd *SubjectData) Reset() {
	*sd = NewSubjectData()
}

// Set changes a single field, addressed by its JSON name.
func (sd *SubjectData) Set(field, value string) error {
	switch field {
	case FieldCommonName:
		sd.CommonName = value
	case FieldOrganization:
		sd.Organization = value
	case FieldOrganizationalUnit:
		sd.OrganizationalUnit = value
	case FieldCountry:
		sd.Country = value
	case FieldState:
		sd.State = value
	case FieldLocality:
		sd.Locality = value
	case FieldEmailAddress:
		sd.EmailAddress = value
	case FieldCertificateType:
		t, err := ParseCertificateType(value)
		if err != nil {
			return err
		}
		sd.CertificateType = t
	default:
		return fmt.Errorf("%w: '%s'", ErrUnknownField, field)
	}
	return nil
}

// Request returns the payload sent to the issuance service. The certificate
// type is conveyed by the endpoint path, not the body.
func (sd SubjectData) Request() SubmissionRequest {
	return SubmissionRequest{
		CommonName:         sd.CommonName,
		Organization:       sd.Organization,
		OrganizationalUnit: sd.OrganizationalUnit,
		Country:            sd.Country,
		State:              sd.State,
		Locality:           sd.Locality,
		EmailAddress:       sd.EmailAddress,
	}
}

// String returns the subject in OpenSSL notation, e.g. /C=US/ST=CA/CN=Jane Doe
func (sd SubjectData) String() string {
	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+value)
		}
	}
	add("C", sd.Country)
	add("ST", sd.State)
	add("L", sd.Locality)
	add("O", sd.Organization)
	add("OU", sd.OrganizationalUnit)
	add("CN", sd.CommonName)
	add("emailAddress", sd.EmailAddress)

	return "/" + strings.Join(parts, "/")
}

type SubmissionRequest struct {
	CommonName         string `json:"commonName"`
	Organization       string `json:"organization"`
	OrganizationalUnit string `json:"organizationalUnit"`
	Country            string `json:"country"`
	State              string `json:"state"`
	Locality           string `json:"locality"`
	EmailAddress       string `json:"emailAddress"`
}

// ValidationResult maps a field name to its error message. An empty result
// means the data is valid.
type ValidationResult map[string]string

func (vr ValidationResult) Valid() bool {
	return len(vr) == 0
}

// Fields returns the names of all invalid fields, sorted.
func (vr ValidationResult) Fields() []string {
	fields := make([]string, 0, len(vr))
	for f := range vr {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
