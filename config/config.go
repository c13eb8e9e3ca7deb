// Package config loads the CLI-adjacent defaults both vsscue binaries
// share: encoding, lenient-mode toggles, and the root project file
// name, following the same file-then-flag override precedence (and
// the same yaml.v2-based loader) as the teacher's config package.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/vsscue/vsscue/internal/codepage"
)

// DefaultEncoding is used when a config file omits "encoding".
const DefaultEncoding = codepage.MBCS

// DefaultRootProjectFile is used when a config file omits
// "root_project_file".
const DefaultRootProjectFile = "AAAAAAAA"

// Config holds the settings read from a vsscue.yaml file.
type Config struct {
	Encoding        string `yaml:"encoding"`
	RootProjectFile string `yaml:"root_project_file"`
	Lenient         bool   `yaml:"lenient"`
	IgnoreUnknown   bool   `yaml:"ignore_unknown"`
}

// Unmarshal parses config bytes into a Config, applying defaults first
// so that a file setting only one key still yields complete settings.
func Unmarshal(content []byte) (*Config, error) {
	cfg := &Config{
		Encoding:        DefaultEncoding,
		RootProjectFile: DefaultRootProjectFile,
	}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses filename. A missing file is not an
// error: the caller gets defaults, since every setting here is also
// overridable by a CLI flag.
func LoadConfigFile(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return Unmarshal(nil)
		}
		return nil, fmt.Errorf("failed to load %v: %v", filename, err)
	}
	cfg, err := Unmarshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to load %v: %v", filename, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := codepage.Resolve(c.Encoding); err != nil {
		return err
	}
	if len(c.RootProjectFile) != 8 {
		return fmt.Errorf("root_project_file must be an 8-character physical name, got %q", c.RootProjectFile)
	}
	return nil
}
