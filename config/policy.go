package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"idea-portfolio-api/evaluation"
)

const policyPathEnv = "POLICY_FILE"

// Policy is the gate table loaded at startup. Per-stage overrides stored in
// the database are applied on top of it by the policy service.
var Policy = evaluation.DefaultPolicyTable()

type policyFile struct {
	Stages map[string]struct {
		Threshold *float64 `yaml:"threshold"`
	} `yaml:"stages"`
}

// ParsePolicy applies the thresholds found in a YAML document to the default
// table. Stages without a threshold keep their default.
func ParsePolicy(raw []byte) (evaluation.PolicyTable, error) {
	var doc policyFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	table := evaluation.DefaultPolicyTable()
	for name, entry := range doc.Stages {
		stage, err := evaluation.ParseStage(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		if entry.Threshold == nil {
			continue
		}
		table, err = table.WithThreshold(stage, *entry.Threshold)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage, err)
		}
	}
	return table, nil
}

// InitPolicy loads POLICY_FILE when set. A missing or broken file is logged
// and the defaults stay in place.
func InitPolicy() evaluation.PolicyTable {
	path := strings.TrimSpace(os.Getenv(policyPathEnv))
	if path == "" {
		return Policy
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("config: cannot read %s: %v (using default gate thresholds)", path, err)
		return Policy
	}

	table, err := ParsePolicy(raw)
	if err != nil {
		log.Printf("config: cannot load %s: %v (using default gate thresholds)", path, err)
		return Policy
	}

	Policy = table
	log.Printf("config: gate thresholds loaded from %s", path)
	return Policy
}
