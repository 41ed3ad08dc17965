package tags

import (
	"strings"
	"unicode/utf8"
)

// MaxDetailLength is the longest detail, in characters, that validates.
const MaxDetailLength = 100

const reservedChars = ":{}"

// Validator classifies tags and memoizes the result.
type Validator struct {
	cache *Cache
}

// NewValidator returns a Validator backed by cache. A nil cache gets a
// private one.
func NewValidator(cache *Cache) *Validator {
	if cache == nil {
		cache = NewCache()
	}
	return &Validator{cache: cache}
}

// Cache exposes the backing cache, mostly for metrics.
func (v *Validator) Cache() *Cache {
	return v.cache
}

// Validate returns Error when the name or detail breaks the format rules
// and Valid otherwise. An empty detail means none was given.
func (v *Validator) Validate(name, detail string) Status {
	if st, ok := v.cache.Get(name, detail); ok {
		return st
	}

	st := Valid
	if len(Problems(name, detail)) > 0 {
		st = Error
	}

	v.cache.Put(name, detail, st)
	return st
}

// Problems lists every rule the tag breaks, in check order. It does not
// touch any cache.
func Problems(name, detail string) []string {
	var problems []string

	if strings.TrimSpace(name) == "" {
		problems = append(problems, "tag name is empty")
	} else {
		if strings.Contains(name, ":") {
			problems = append(problems, `tag name must not contain ":"`)
		}
		if strings.ContainsAny(name, "{}") {
			problems = append(problems, `tag name must not contain "{" or "}"`)
		}
		if name != strings.TrimSpace(name) {
			problems = append(problems, "tag name has leading or trailing whitespace")
		}
	}

	if detail != "" {
		if strings.Contains(detail, ":") {
			problems = append(problems, `detail must not contain ":"`)
		}
		if strings.ContainsAny(detail, "{}") {
			problems = append(problems, `detail must not contain "{" or "}"`)
		}
		if detail != strings.TrimSpace(detail) {
			problems = append(problems, "detail has leading or trailing whitespace")
		}
		if utf8.RuneCountInString(detail) > MaxDetailLength {
			problems = append(problems, "detail is longer than 100 characters")
		}
	}

	return problems
}

// CheckStructure validates a full category:name{detail} triple and reports
// every problem found. Category names follow the same character rules as
// tag names.
func CheckStructure(category, name, detail string) []string {
	var problems []string
	switch {
	case strings.TrimSpace(category) == "":
		problems = append(problems, "category name is empty")
	case strings.ContainsAny(category, reservedChars):
		problems = append(problems, `category name must not contain ":", "{" or "}"`)
	}
	return append(problems, Problems(name, detail)...)
}
