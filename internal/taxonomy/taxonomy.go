// Package taxonomy holds the controlled vocabulary for mystery attributes.
// Attribute values submitted with a post are matched against it so listings
// can filter on a stable set of terms.
package taxonomy

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed attributes.yml
var attributesYAML []byte

// Vocabulary is the set of accepted attribute values, grouped by attribute.
type Vocabulary struct {
	Colors    []string `yaml:"colors"`
	Shapes    []string `yaml:"shapes"`
	Materials []string `yaml:"materials"`
}

var (
	once  sync.Once
	vocab Vocabulary
	sets  map[string]map[string]bool
)

func load() {
	if err := yaml.Unmarshal(attributesYAML, &vocab); err != nil {
		// The file is embedded at build time; failing to parse it is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("taxonomy: invalid attributes.yml: %v", err))
	}
	sets = map[string]map[string]bool{
		"color":    toSet(vocab.Colors),
		"shape":    toSet(vocab.Shapes),
		"material": toSet(vocab.Materials),
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}

// Get returns the loaded vocabulary.
func Get() Vocabulary {
	once.Do(load)
	return vocab
}

// Normalize lowercases and trims an attribute value.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// ValidateValues checks the given values against the named attribute
// ("color", "shape" or "material") and returns the unknown ones, normalized.
func ValidateValues(attribute string, values []string) (normalized []string, unknown []string) {
	once.Do(load)
	set, ok := sets[attribute]
	if !ok {
		return nil, values
	}
	for _, v := range values {
		n := Normalize(v)
		if n == "" {
			continue
		}
		normalized = append(normalized, n)
		if !set[n] {
			unknown = append(unknown, n)
		}
	}
	return normalized, unknown
}
