package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/whatif/internal/query"
)

// Scenario is one instance and the questions asked about it.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Instance is the path of the instance file (.json, .yaml or .cue).
	Instance string `yaml:"instance"`

	// Steps are asked in order against the same solved run.
	Steps []Step `yaml:"steps"`
}

// Step is one what-if question.
type Step struct {
	Name        string         `yaml:"name"`
	QueryType   string         `yaml:"query_type,omitempty"`
	QueryParams map[string]any `yaml:"query_params,omitempty"`
	Question    string         `yaml:"question,omitempty"`
	Expect      Expect         `yaml:"expect"`
}

// Expect lists the checked properties of an answer. Unset fields are not
// checked.
type Expect struct {
	// Status is the what-if result status, or "rejected" when the pipeline
	// refused the question.
	Status string `yaml:"status,omitempty"`

	// ErrorCode is the rejection code; implies status "rejected".
	ErrorCode string `yaml:"error_code,omitempty"`

	ConstraintCount *int     `yaml:"constraint_count,omitempty"`
	IISTypes        []string `yaml:"iis_types,omitempty"`
	MinimalityInIIS *bool    `yaml:"minimality_in_iis,omitempty"`
	ObjectiveDelta  *float64 `yaml:"objective_difference,omitempty"`
	Description     string   `yaml:"description,omitempty"`
}

// StatusRejected marks a question the pipeline refused before the oracle.
const StatusRejected = "rejected"

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Instance != "" && !filepath.IsAbs(scenario.Instance) {
		scenario.Instance = filepath.Join(filepath.Dir(path), scenario.Instance)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios lists the .yaml/.yml files under dir whose base name
// matches filter (a glob; empty matches all).
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			if err != nil {
				return fmt.Errorf("invalid filter %q: %w", filter, err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Instance == "" {
		return fmt.Errorf("instance is required")
	}
	if _, err := os.Stat(s.Instance); os.IsNotExist(err) {
		return fmt.Errorf("instance file not found: %s", s.Instance)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Steps))
	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if seen[step.Name] {
			return fmt.Errorf("steps[%d]: duplicate name %q", i, step.Name)
		}
		seen[step.Name] = true

		if step.QueryType == "" && step.Question == "" {
			return fmt.Errorf("steps[%d]: query_type or question is required", i)
		}
		if step.QueryType != "" {
			if _, err := query.ParseKind(step.QueryType); err != nil && step.Expect.ErrorCode == "" {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
		}
		if step.Expect.ErrorCode != "" && step.Expect.Status != "" && step.Expect.Status != StatusRejected {
			return fmt.Errorf("steps[%d].expect: error_code requires status %q", i, StatusRejected)
		}
	}
	return nil
}
