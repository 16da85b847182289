package suite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	probeerrors "github.com/alexisbeaulieu97/probe/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Load reads, decodes and validates the suite file at path.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, probeerrors.NewParseError(path, 0, err)
	}
	return Parse(path, data)
}

// Parse decodes and validates suite YAML. Unknown fields are rejected.
func Parse(path string, data []byte) (*Suite, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var s Suite
	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, probeerrors.NewParseError(path, 0, fmt.Errorf("suite file is empty"))
		}
		return nil, probeerrors.NewParseError(path, extractLine(err), err)
	}

	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}
