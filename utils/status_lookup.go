package utils

import (
	"fmt"
	"sort"
	"strings"

	"idea-portfolio-api/evaluation"
)

// Idea categories and priorities mirror the values stored in ideas.category
// and ideas.priority.
const (
	CategoryInnovation         = "innovation"
	CategoryProcessImprovement = "process-improvement"
	CategoryCostReduction      = "cost-reduction"
	CategoryQuality            = "quality"
	CategorySafety             = "safety"
	CategorySustainability     = "sustainability"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var (
	stageStatusSynonyms = map[string][]string{
		string(evaluation.StatusPending):    {"pending", "new", "submitted"},
		string(evaluation.StatusInProgress): {"in_progress", "in-progress", "in-review", "in_review", "review"},
		string(evaluation.StatusApproved):   {"approved", "approve"},
		string(evaluation.StatusRejected):   {"rejected", "reject", "declined"},
		string(evaluation.StatusOnHold):     {"on_hold", "on-hold", "hold", "paused"},
	}
	decisionSynonyms = map[string][]string{
		string(evaluation.DecisionAdvance): {"advance", "accept", "accepted", "approve", "approved", "pass"},
		string(evaluation.DecisionReject):  {"reject", "rejected", "decline", "fail"},
		string(evaluation.DecisionHold):    {"hold", "on_hold", "on-hold", "defer"},
	}
	categorySynonyms = map[string][]string{
		CategoryInnovation:         {"innovation", "new-product"},
		CategoryProcessImprovement: {"process-improvement", "process_improvement", "process"},
		CategoryCostReduction:      {"cost-reduction", "cost_reduction", "cost"},
		CategoryQuality:            {"quality"},
		CategorySafety:             {"safety"},
		CategorySustainability:     {"sustainability", "environment"},
	}
	prioritySynonyms = map[string][]string{
		PriorityHigh:   {"high", "h", "urgent"},
		PriorityMedium: {"medium", "m", "normal"},
		PriorityLow:    {"low", "l"},
	}

	stageStatusAliases = buildAliasMap(stageStatusSynonyms)
	decisionAliases    = buildAliasMap(decisionSynonyms)
	categoryAliases    = buildAliasMap(categorySynonyms)
	priorityAliases    = buildAliasMap(prioritySynonyms)
)

func buildAliasMap(synonyms map[string][]string) map[string]string {
	aliasMap := make(map[string]string)
	for canonical, aliases := range synonyms {
		if key := normalizeCode(canonical); key != "" {
			aliasMap[key] = canonical
		}
		for _, alias := range aliases {
			if key := normalizeCode(alias); key != "" {
				aliasMap[key] = canonical
			}
		}
	}
	return aliasMap
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func lookup(aliases map[string]string, kind, raw string) (string, error) {
	if canonical, ok := aliases[normalizeCode(raw)]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("invalid %s %q", kind, strings.TrimSpace(raw))
}

// ParseStageStatus maps "in-review", "on-hold" and friends onto the stored
// status values.
func ParseStageStatus(raw string) (evaluation.Status, error) {
	v, err := lookup(stageStatusAliases, "stage status", raw)
	return evaluation.Status(v), err
}

// ParseDecision maps form verdicts ("accept", "approve", "on-hold") onto
// gate decisions.
func ParseDecision(raw string) (evaluation.Decision, error) {
	v, err := lookup(decisionAliases, "decision", raw)
	return evaluation.Decision(v), err
}

// ParseCategory returns the canonical idea category.
func ParseCategory(raw string) (string, error) {
	return lookup(categoryAliases, "category", raw)
}

// ParsePriority returns the canonical idea priority. Empty input means
// medium.
func ParsePriority(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return PriorityMedium, nil
	}
	return lookup(priorityAliases, "priority", raw)
}

// Categories lists the canonical categories, sorted.
func Categories() []string {
	out := make([]string, 0, len(categorySynonyms))
	for k := range categorySynonyms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// OneOf normalizes raw and checks it against allowed values.
func OneOf(raw string, allowed ...string) (string, bool) {
	v := normalizeCode(raw)
	for _, a := range allowed {
		if v == a {
			return v, true
		}
	}
	return "", false
}
