package intake

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Scenario is a named set of form inputs, as stored in a YAML file.
type Scenario struct {
	Name string `yaml:"name"`
	Form Form   `yaml:"form"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "intake: read scenario %s", path)
	}
	return ParseScenario(data)
}

// ParseScenario decodes scenario YAML. The document has a top-level
// "scenario" key.
func ParseScenario(data []byte) (*Scenario, error) {
	var wrapper struct {
		Scenario Scenario `yaml:"scenario"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "intake: parse scenario")
	}
	if wrapper.Scenario.Name == "" {
		return nil, eris.New("intake: scenario name is required")
	}
	return &wrapper.Scenario, nil
}
