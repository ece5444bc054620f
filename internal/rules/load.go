package rules

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type rulesFile struct {
	Rules []Rule `toml:"rule"`
}

// Load reads a rule set from a TOML file. The file fully replaces the
// built-in rules, so deployments own the entire detection surface:
//
//	[[rule]]
//	id = "amount.labeled.balance-due"
//	field = "amount"
//	pattern = '(?i)balance\s*due[:\s]*\$?\s*([0-9][0-9.,]*)'
//	weight = 0.95
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: reading %s: %w", path, err)
	}
	var f rulesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("rules: parsing %s: %w", path, err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rules: %s defines no rules", path)
	}
	return NewSet(f.Rules)
}

// LoadOrDefault returns the rule set from path, or the built-in set when
// path is empty.
func LoadOrDefault(path string) (*Set, error) {
	if path == "" {
		return DefaultSet(), nil
	}
	return Load(path)
}
