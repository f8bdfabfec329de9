package match

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var rawTables []byte

// SkillType is the coarse classification of a job category. It selects which
// weight profile the vetting engine uses.
type SkillType string

const (
	HighSkill SkillType = "HIGH_SKILL"
	LowSkill  SkillType = "LOW_SKILL"
)

// Tables holds the static matching data: the many-to-many category relation,
// keyword groups treated as equivalent, and the category → skill-type
// classification. Values are reproducible configuration, never mutated at
// runtime.
type Tables struct {
	CategoryLinks map[string][]string `yaml:"category_links"`
	KeywordGroups [][]string          `yaml:"keyword_groups"`
	HighSkill     []string            `yaml:"high_skill_categories"`
	LowSkill      []string            `yaml:"low_skill_categories"`

	links     map[string]map[string]struct{}
	groups    map[string]int
	skillType map[string]SkillType
}

// Default returns the tables embedded in the binary.
func Default() *Tables {
	return defaultTables
}

var defaultTables = func() *Tables {
	t, err := ParseTables(rawTables)
	if err != nil {
		panic(fmt.Sprintf("match: embedded tables.yaml is invalid: %v", err))
	}
	return t
}()

// ParseTables parses YAML table data and builds the lookup indexes.
// The category relation is made bidirectional here so the YAML only has to
// declare each link once.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}

	t.links = make(map[string]map[string]struct{})
	addLink := func(a, b string) {
		if t.links[a] == nil {
			t.links[a] = make(map[string]struct{})
		}
		t.links[a][b] = struct{}{}
	}
	for from, tos := range t.CategoryLinks {
		from = normCategory(from)
		for _, to := range tos {
			to = normCategory(to)
			addLink(from, to)
			addLink(to, from)
		}
	}

	t.groups = make(map[string]int)
	for i, group := range t.KeywordGroups {
		for _, word := range group {
			t.groups[normCategory(word)] = i
		}
	}

	t.skillType = make(map[string]SkillType, len(t.HighSkill)+len(t.LowSkill))
	for _, c := range t.HighSkill {
		t.skillType[normCategory(c)] = HighSkill
	}
	for _, c := range t.LowSkill {
		c = normCategory(c)
		if _, dup := t.skillType[c]; dup {
			return nil, fmt.Errorf("category %q listed as both high-skill and low-skill", c)
		}
		t.skillType[c] = LowSkill
	}

	return &t, nil
}

// Linked reports whether the two categories are directly related in the
// static many-to-many table.
func (t *Tables) Linked(a, b string) bool {
	a = normCategory(a)
	b = normCategory(b)
	if a == b && a != "" {
		return true
	}
	_, ok := t.links[a][b]
	return ok
}

// SameKeywordGroup reports whether both categories belong to the same
// keyword group (e.g. {tech, technical, technology, it}).
func (t *Tables) SameKeywordGroup(a, b string) bool {
	ga, ok := t.groups[normCategory(a)]
	if !ok {
		return false
	}
	gb, ok := t.groups[normCategory(b)]
	return ok && ga == gb
}

// SkillTypeFor classifies a job category as high-skill or low-skill.
// Categories absent from the table default to low-skill.
func (t *Tables) SkillTypeFor(category string) SkillType {
	if st, ok := t.skillType[normCategory(category)]; ok {
		return st
	}
	return LowSkill
}

func normCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
