// Package types provides type definitions for structured data used throughout the ats-engine system.
package types

// Category identifies one of the three JD keyword lists.
type Category string

// Keyword categories, in scoring-weight order.
const (
	CategoryRequired Category = "required_skills"
	CategoryOptional Category = "optional_skills"
	CategoryTools    Category = "tools"
)

// Categories lists all keyword categories in their canonical order.
// Iteration over keyword sets must use this slice, never a map, so
// results are stable across runs.
var Categories = []Category{CategoryRequired, CategoryOptional, CategoryTools}

// KeywordSet holds the JD-extracted keywords grouped by category.
// Lists are order-preserving and unique within each category; the same
// keyword may legitimately appear in more than one category.
type KeywordSet struct {
	Required []string `json:"required_skills"`
	Optional []string `json:"optional_skills"`
	Tools    []string `json:"tools"`
}

// Get returns the keyword list for a category.
func (k KeywordSet) Get(cat Category) []string {
	switch cat {
	case CategoryRequired:
		return k.Required
	case CategoryOptional:
		return k.Optional
	case CategoryTools:
		return k.Tools
	}
	return nil
}

// Set replaces the keyword list for a category.
func (k *KeywordSet) Set(cat Category, keywords []string) {
	switch cat {
	case CategoryRequired:
		k.Required = keywords
	case CategoryOptional:
		k.Optional = keywords
	case CategoryTools:
		k.Tools = keywords
	}
}

// All returns every keyword across the three categories, in category order.
func (k KeywordSet) All() []string {
	all := make([]string, 0, len(k.Required)+len(k.Optional)+len(k.Tools))
	all = append(all, k.Required...)
	all = append(all, k.Optional...)
	all = append(all, k.Tools...)
	return all
}

// IsEmpty reports whether no category has any keywords.
func (k KeywordSet) IsEmpty() bool {
	return len(k.Required) == 0 && len(k.Optional) == 0 && len(k.Tools) == 0
}

// JobDescription is the canonical shape produced by the JD-analysis
// collaborator after key-name drift has been resolved. Core functions
// only ever see this shape.
type JobDescription struct {
	Role             string     `json:"role"`
	Seniority        string     `json:"seniority"`
	Keywords         KeywordSet `json:"keywords"`
	Responsibilities []string   `json:"responsibilities"`
	ATSKeywords      []string   `json:"ats_keywords"`
}
