// Package security provides validation of the identifiers that torpedo
// interpolates into query text. Literal values never reach the text; they are
// always bound as named parameters.
package security

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator validates entity and property names against the query grammar.
type Validator struct {
	identifier *regexp.Regexp
	strict     bool
}

// ValidatorOption configures the Validator.
type ValidatorOption func(*Validator)

// WithStrict enables strict validation mode: entity and property names may
// not be reserved keywords.
func WithStrict(strict bool) ValidatorOption {
	return func(v *Validator) {
		v.strict = strict
	}
}

// identifierPattern matches a JPQL identifier: a letter or underscore followed
// by letters, digits, underscores or '$'.
var identifierPattern = `^[\p{L}_][\p{L}\p{N}_$]*$`

// reservedKeywords lists the query-language keywords rejected in strict mode.
var reservedKeywords = map[string]struct{}{
	"select": {}, "from": {}, "where": {}, "update": {}, "delete": {},
	"join": {}, "outer": {}, "inner": {}, "left": {}, "right": {},
	"group": {}, "by": {}, "having": {}, "fetch": {}, "distinct": {},
	"object": {}, "null": {}, "true": {}, "false": {}, "not": {},
	"and": {}, "or": {}, "between": {}, "like": {}, "in": {}, "as": {},
	"unknown": {}, "empty": {}, "member": {}, "of": {}, "is": {},
	"avg": {}, "max": {}, "min": {}, "sum": {}, "count": {},
	"order": {}, "asc": {}, "desc": {}, "new": {}, "exists": {},
	"all": {}, "any": {}, "some": {}, "with": {}, "set": {},
}

// NewValidator creates a new identifier validator.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		identifier: regexp.MustCompile(identifierPattern),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// ValidateEntityName checks an entity mapping name used in the from clause.
func (v *Validator) ValidateEntityName(name string) error {
	if !v.identifier.MatchString(name) {
		return fmt.Errorf("invalid entity name %q", name)
	}
	if v.strict && IsReserved(name) {
		return fmt.Errorf("entity name %q is a reserved keyword", name)
	}
	return nil
}

// ValidatePropertyName checks a property name used in a navigation path.
func (v *Validator) ValidatePropertyName(name string) error {
	if !v.identifier.MatchString(name) {
		return fmt.Errorf("invalid property name %q", name)
	}
	if v.strict && IsReserved(name) {
		return fmt.Errorf("property name %q is a reserved keyword", name)
	}
	return nil
}

// IsReserved reports whether name is a reserved keyword (case-insensitive).
func IsReserved(name string) bool {
	_, ok := reservedKeywords[strings.ToLower(name)]
	return ok
}
