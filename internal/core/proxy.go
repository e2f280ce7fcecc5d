package core

import (
	"fmt"
	"slices"

	"github.com/coregx/torpedo/internal/util"
)

// Proxy stands in for an entity, or for a value reached by navigation,
// while a query is built. Navigating a proxy records an Invocation in the
// session instead of reading data.
type Proxy struct {
	session  *Session
	entity   *util.EntityInfo
	property *util.Property
}

// Get navigates to property, given either as the Go field name or as the
// query-language name, and returns a placeholder for its value.
//
// Get panics with a *BuildError when the property is unknown, when the
// receiver is a scalar value, or when no query is under construction.
func (p *Proxy) Get(property string) *Proxy {
	return p.session.capture(p, property)
}

// Entity returns the entity name the proxy stands for, "" for scalar values.
func (p *Proxy) Entity() string {
	if p.entity == nil {
		return ""
	}
	return p.entity.Name
}

// Invocation is one captured navigation.
type Invocation struct {
	Receiver *Proxy
	Member   string
	Scope    *Builder
	Path     []string
	Property *util.Property
	Result   *Proxy
}

// Selector returns the property path selector of the navigation.
func (inv *Invocation) Selector() *PathSelector {
	return NewPathSelector(inv.Scope, inv.Path...)
}

func (s *Session) capture(receiver *Proxy, member string) *Proxy {
	if receiver == nil || receiver.session != s || len(s.stack) == 0 {
		fail("get", ErrNoActiveQuery)
	}
	if receiver.entity == nil {
		fail("get", fmt.Errorf("%w: cannot navigate %q through a value", ErrNotEntity, member))
	}
	prop, ok := receiver.entity.Property(member)
	if !ok {
		fail("get", fmt.Errorf("%w: %s.%s", ErrUnknownProperty, receiver.entity.Name, member))
	}
	if err := s.validator.ValidatePropertyName(prop.Name); err != nil {
		fail("get", fmt.Errorf("%w: %v", ErrInvalidIdentifier, err))
	}

	var scope *Builder
	var path []string
	if b, ok := s.scopes[receiver]; ok {
		scope = b
	} else if prev, ok := s.captured[receiver]; ok {
		// Chained navigation supersedes the receiver's invocation.
		s.unpend(prev)
		scope = prev.Scope
		path = slices.Clone(prev.Path)
	} else {
		fail("get", ErrNoActiveQuery)
	}

	result := &Proxy{session: s, property: prop}
	if prop.Entity {
		info, err := s.entity(prop.Type)
		if err != nil {
			fail("get", err)
		}
		result.entity = info
	}

	inv := &Invocation{
		Receiver: receiver,
		Member:   member,
		Scope:    scope,
		Path:     append(path, prop.Name),
		Property: prop,
		Result:   result,
	}
	s.captured[result] = inv
	s.pending = append(s.pending, inv)
	return result
}

// consume resolves a placeholder to its invocation. A placeholder may be
// consumed more than once.
func (s *Session) consume(p *Proxy) (*Invocation, bool) {
	inv, ok := s.captured[p]
	if ok {
		s.unpend(inv)
	}
	return inv, ok
}

func (s *Session) unpend(inv *Invocation) {
	if i := slices.Index(s.pending, inv); i >= 0 {
		s.pending = slices.Delete(s.pending, i, i+1)
	}
}
