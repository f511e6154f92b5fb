package configuration

import (
	"os"
	"path/filepath"
	"time"

	"github.com/KaiserWerk/CertMaker-Submitter/internal/assets"
	"github.com/KaiserWerk/CertMaker-Submitter/internal/helper"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is prepended to environment overrides, e.g. CERTMAKER_SERVICE_BASE_URL.
const EnvPrefix = "certmaker"

type AppConfig struct {
	App     App     `yaml:"app"`
	Service Service `yaml:"service"`
	Server  Server  `yaml:"server"`
}

type (
	App struct {
		Schedule    string `yaml:"schedule" envconfig:"schedule"`
		RequestDir  string `yaml:"request_dir" envconfig:"request_dir"`
		ResponseDir string `yaml:"response_dir" envconfig:"response_dir"`
	}
	Service struct {
		BaseURL    string        `yaml:"base_url" envconfig:"base_url"`
		ApiKey     string        `yaml:"api_key" envconfig:"api_key"`
		SkipVerify bool          `yaml:"skip_verify" envconfig:"skip_verify"`
		Timeout    time.Duration `yaml:"timeout" envconfig:"timeout"`
	}
	Server struct {
		Listen string `yaml:"listen" envconfig:"listen"`
	}
)

// Setup reads the configuration file, creating it from the embedded
// default first if it does not exist. Environment variables take
// precedence over file values.
func Setup(file string) (*AppConfig, bool, error) {
	var created bool
	if !helper.FileExists(file) {
		if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
			return nil, false, err
		}

		cont, err := assets.GetConfigAsset("config.dist.yaml")
		if err != nil {
			return nil, false, err
		}

		if err := os.WriteFile(file, cont, 0600); err != nil {
			return nil, false, err
		}
		created = true
	}

	cont, err := os.ReadFile(file)
	if err != nil {
		return nil, created, err
	}

	var c AppConfig
	if err = yaml.Unmarshal(cont, &c); err != nil {
		return nil, created, err
	}

	if err = envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, created, err
	}

	return &c, created, nil
}
