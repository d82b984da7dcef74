package sweeptable

import (
	"os"

	"gopkg.in/yaml.v3"
)

type settingsFile struct {
	Filename    string                            `yaml:"filename"`
	Timestamp   string                            `yaml:"timestamp"`
	Instruments map[string]map[string]interface{} `yaml:"instruments"`
}

// writeSettings writes a snapshot of the provider state. The file is
// informational and never read back.
func writeSettings(path, filename, timestamp string, p SettingsProvider) error {
	data, err := yaml.Marshal(&settingsFile{
		Filename:    filename,
		Timestamp:   timestamp,
		Instruments: p.Settings(),
	})
	if err != nil {
		return err
	}
	return ioError(os.WriteFile(path, data, 0o644))
}

// StaticSettings is a SettingsProvider returning a fixed snapshot.
type StaticSettings map[string]map[string]interface{}

// Settings implements SettingsProvider.
func (s StaticSettings) Settings() map[string]map[string]interface{} { return s }
