package certmaker

import (
	"fmt"
	"os"

	"github.com/KaiserWerk/CertMaker-Submitter/internal/entity"

	"gopkg.in/yaml.v2"
)

// GetRequestFromFile reads subject data from a YAML file. A missing
// certificate type falls back to the default.
func GetRequestFromFile(file string) (*entity.SubjectData, error) {
	fileCont, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var sd entity.SubjectData
	if err = yaml.UnmarshalStrict(fileCont, &sd); err != nil {
		return nil, fmt.Errorf("could not parse '%s': %w", file, err)
	}

	sd.CertificateType, err = entity.ParseCertificateType(string(sd.CertificateType))
	if err != nil {
		return nil, fmt.Errorf("could not parse '%s': %w", file, err)
	}

	return &sd, nil
}
