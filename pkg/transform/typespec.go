// Copyright 2026 cloudmorph LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transform

import (
	"regexp"

	"github.com/gobwas/glob"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidTypeSpec is returned when a TypeSpec cannot be evaluated,
// for example a nil pattern or a glob that does not compile. The error
// surfaces at matching time, not at construction.
var ErrInvalidTypeSpec = errors.Base("invalid resource type spec")

// TypeSpec filters which resource types a resource rule applies to. A
// nil TypeSpec matches every resource. Specs are built with Literal,
// Pattern, Glob, Predicate and AnyOf; matching is a pure predicate with
// no side effects.
type TypeSpec interface {
	match(resourceType string) (bool, error)
}

// Matches reports whether a resource type satisfies the spec. A nil
// spec matches unconditionally.
func Matches(resourceType string, spec TypeSpec) (bool, error) {
	if spec == nil {
		return true, nil
	}
	return spec.match(resourceType)
}

// Literal matches a resource type by exact equality.
func Literal(resourceType string) TypeSpec {
	return literalSpec(resourceType)
}

type literalSpec string

func (s literalSpec) match(resourceType string) (bool, error) {
	return resourceType == string(s), nil
}

// Pattern matches a resource type against a regular expression,
// unanchored.
func Pattern(re *regexp.Regexp) TypeSpec {
	return patternSpec{re: re}
}

type patternSpec struct {
	re *regexp.Regexp
}

func (s patternSpec) match(resourceType string) (bool, error) {
	if s.re == nil {
		return false, errors.Errorf("nil pattern: %w", ErrInvalidTypeSpec)
	}
	return s.re.MatchString(resourceType), nil
}

// Glob matches a resource type against a glob pattern with "::" path
// segments, so "AWS::EC2::*" matches every EC2 type. A malformed
// pattern fails with ErrInvalidTypeSpec on first use.
func Glob(pattern string) TypeSpec {
	g, err := glob.Compile(pattern, ':')
	if err != nil {
		return globSpec{err: errors.Errorf("compiling glob %q: %w", pattern, ErrInvalidTypeSpec)}
	}
	return globSpec{g: g}
}

type globSpec struct {
	g   glob.Glob
	err error
}

func (s globSpec) match(resourceType string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.g.Match(resourceType), nil
}

// Predicate matches a resource type with an arbitrary function.
func Predicate(fn func(resourceType string) bool) TypeSpec {
	return predicateSpec(fn)
}

type predicateSpec func(string) bool

func (s predicateSpec) match(resourceType string) (bool, error) {
	if s == nil {
		return false, errors.Errorf("nil predicate: %w", ErrInvalidTypeSpec)
	}
	return s(resourceType), nil
}

// AnyOf matches when at least one of the given specs matches; the first
// match short-circuits. A nil element fails with ErrInvalidTypeSpec.
func AnyOf(specs ...TypeSpec) TypeSpec {
	return listSpec(specs)
}

type listSpec []TypeSpec

func (s listSpec) match(resourceType string) (bool, error) {
	for _, spec := range s {
		if spec == nil {
			return false, errors.Errorf("nil spec in list: %w", ErrInvalidTypeSpec)
		}
		ok, err := spec.match(resourceType)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
