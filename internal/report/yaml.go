package report

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlReport represents a report definition as written in the reports
// YAML file. Sort keys use the compact "column+" / "column-" form.
type yamlReport struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Labels  []string `yaml:"labels,omitempty"`
	Sort    []string `yaml:"sort,omitempty"`
	Filter  []string `yaml:"filter,omitempty"`
	Limit   int      `yaml:"limit,omitempty"`
}

// yamlFile represents the structure of a reports YAML file.
type yamlFile struct {
	Reports []yamlReport `yaml:"reports"`
}

// LoadDefinitions reads custom report definitions from a YAML file and
// merges them over the built-ins: a custom report with a built-in's name
// replaces it. A missing file yields just the built-ins.
func LoadDefinitions(path string) (map[string]Definition, error) {
	defs := BuiltIn()
	if path == "" {
		return defs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defs, nil
		}
		return nil, fmt.Errorf("failed to read reports file %s: %w", path, err)
	}

	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse reports file %s: %w", path, err)
	}

	for _, yr := range file.Reports {
		def, err := convertYAMLReport(yr)
		if err != nil {
			return nil, fmt.Errorf("invalid report in %s: %w", path, err)
		}
		defs[def.Name] = def
	}

	return defs, nil
}

// convertYAMLReport converts a yamlReport to a Definition, applying
// validation.
func convertYAMLReport(yr yamlReport) (Definition, error) {
	def := Definition{
		Name:   yr.Name,
		Labels: yr.Labels,
		Filter: yr.Filter,
		Limit:  yr.Limit,
	}

	for _, c := range yr.Columns {
		def.Columns = append(def.Columns, Column(c))
	}

	for _, s := range yr.Sort {
		key := SortKey{}
		switch {
		case strings.HasSuffix(s, "-"):
			key.Column = Column(strings.TrimSuffix(s, "-"))
			key.Descending = true
		case strings.HasSuffix(s, "+"):
			key.Column = Column(strings.TrimSuffix(s, "+"))
		default:
			key.Column = Column(s)
		}
		def.Sort = append(def.Sort, key)
	}

	if err := def.Validate(); err != nil {
		return Definition{}, err
	}

	return def, nil
}
