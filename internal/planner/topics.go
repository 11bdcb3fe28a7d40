package planner

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	dm "stajdefteri/internal/models/domain_models"
)

//go:embed topics.yaml
var defaultTopicsYAML []byte

// TopicPools maps a category to the topics a day of that category may get.
type TopicPools map[dm.Category][]string

type yamlTopicPools struct {
	Production []string `yaml:"production"`
	Management []string `yaml:"management"`
}

// LoadTopicPools parses a YAML document with production and management lists.
func LoadTopicPools(raw []byte) (TopicPools, error) {
	var doc yamlTopicPools
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("topic pools: %w", err)
	}
	pools := TopicPools{
		dm.CategoryProduction: cleanTopics(doc.Production),
		dm.CategoryManagement: cleanTopics(doc.Management),
	}
	for cat, list := range pools {
		if len(list) == 0 {
			return nil, fmt.Errorf("topic pools: %s pool is empty", cat)
		}
	}
	return pools, nil
}

// DefaultTopicPools returns the embedded pools.
func DefaultTopicPools() (TopicPools, error) {
	return LoadTopicPools(defaultTopicsYAML)
}

func cleanTopics(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
