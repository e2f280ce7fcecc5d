package security

import (
	"testing"
)

func TestValidator_ValidateEntityName(t *testing.T) {
	tests := []struct {
		name      string
		entity    string
		strict    bool
		wantError bool
	}{
		// Legitimate names (should pass)
		{name: "simple", entity: "Person", wantError: false},
		{name: "underscore", entity: "Order_Line", wantError: false},
		{name: "leading_underscore", entity: "_Internal", wantError: false},
		{name: "unicode", entity: "Société", wantError: false},

		// Malformed names
		{name: "empty", entity: "", wantError: true},
		{name: "space", entity: "Person x", wantError: true},
		{name: "leading_digit", entity: "1Person", wantError: true},
		{name: "injection", entity: "Person p where 1=1 --", wantError: true},
		{name: "dotted", entity: "a.Person", wantError: true},

		// Reserved keywords
		{name: "order_lenient", entity: "Order", wantError: false},
		{name: "select_strict", entity: "Select", strict: true, wantError: true},
		{name: "order_strict", entity: "order", strict: true, wantError: true},
		{name: "member_strict", entity: "MEMBER", strict: true, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(WithStrict(tt.strict))
			err := v.ValidateEntityName(tt.entity)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateEntityName(%q) error = %v, wantError %v", tt.entity, err, tt.wantError)
			}
		})
	}
}

func TestValidator_ValidatePropertyName(t *testing.T) {
	tests := []struct {
		name      string
		property  string
		strict    bool
		wantError bool
	}{
		{name: "simple", property: "name", wantError: false},
		{name: "bean_upper", property: "ID", wantError: false},
		{name: "dollar", property: "total$", wantError: false},
		{name: "keyword_lenient", property: "order", wantError: false},
		{name: "keyword_strict", property: "order", strict: true, wantError: true},
		{name: "space", property: "first name", wantError: true},
		{name: "paren", property: "name)", wantError: true},
		{name: "empty", property: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(WithStrict(tt.strict))
			err := v.ValidatePropertyName(tt.property)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidatePropertyName(%q) error = %v, wantError %v", tt.property, err, tt.wantError)
			}
		})
	}
}

func TestIsReserved(t *testing.T) {
	for _, kw := range []string{"select", "FROM", "Having", "with"} {
		if !IsReserved(kw) {
			t.Errorf("IsReserved(%q) = false, want true", kw)
		}
	}
	for _, name := range []string{"person", "address", "selector"} {
		if IsReserved(name) {
			t.Errorf("IsReserved(%q) = true, want false", name)
		}
	}
}
