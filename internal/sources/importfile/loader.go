package importfile

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader reads the bookmark import file.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the import file. {{MARKS_VAR_NAME}} placeholders are
// replaced with the value of the matching environment variable.
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	data = expandTemplateVariables(data)

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse import yaml: %w", err)
	}

	return file, nil
}

var templateVar = regexp.MustCompile(`\{\{\s*([A-Z0-9_]+)\s*\}\}`)

// expandTemplateVariables substitutes {{MARKS_VAR_*}} from the environment.
// Other or unset placeholders become empty strings.
func expandTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAllFunc(data, func(m []byte) []byte {
		name := string(templateVar.FindSubmatch(m)[1])
		if !strings.HasPrefix(name, "MARKS_VAR_") {
			return nil
		}
		return []byte(os.Getenv(name))
	})
}
