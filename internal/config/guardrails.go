package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getclever/docqa/internal/core/usecase"
)

type guardrailRulesFile struct {
	Rules []struct {
		Name     string   `yaml:"name"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"rules"`
}

// LoadGuardrailRules reads an optional rule file that replaces the built-in
// injection rule set. An empty path keeps the defaults.
func LoadGuardrailRules(path string) ([]usecase.GuardrailRule, error) {
	if strings.TrimSpace(path) == "" {
		return usecase.DefaultGuardrailRules(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guardrail rules file: %w", err)
	}

	var file guardrailRulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse guardrail rules file: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("guardrail rules file %s defines no rules", path)
	}

	out := make([]usecase.GuardrailRule, 0, len(file.Rules))
	for i, rule := range file.Rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return nil, fmt.Errorf("guardrail rule %d has no name", i)
		}
		patterns := make([]string, 0, len(rule.Patterns))
		for _, pattern := range rule.Patterns {
			pattern = strings.ToLower(strings.TrimSpace(pattern))
			if pattern != "" {
				patterns = append(patterns, pattern)
			}
		}
		if len(patterns) == 0 {
			return nil, fmt.Errorf("guardrail rule %q has no patterns", name)
		}
		out = append(out, usecase.GuardrailRule{Name: name, Patterns: patterns})
	}
	return out, nil
}
