package certmaker

import "github.com/KaiserWerk/CertMaker-Submitter/internal/entity"

// Path segments expected by the issuance service. The casing is part of the
// service contract.
const (
	segmentSigned     = "/signed"
	segmentSelfSigned = "/self-signed"
	segmentCA         = "/Ca"
	segmentUnsigned   = "/Unsigned"
)

// ResolveEndpoint returns the issuance URL for certificate type t. Unknown
// types yield base unchanged.
func ResolveEndpoint(base string, t entity.CertificateType) string {
	switch t {
	case entity.CertificateTypeSigned:
		return base + segmentSigned
	case entity.CertificateTypeSelfSigned:
		return base + segmentSelfSigned
	case entity.CertificateTypeCA:
		return base + segmentCA
	case entity.CertificateTypeUnsigned:
		return base + segmentUnsigned
	default:
		return base
	}
}
