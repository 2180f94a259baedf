package gen

import (
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
)

// rules implements the generator's plural rules. Every rule ends in a
// distinct suffix, so the result does not depend on rule precedence.
var rules = func() *inflect.Ruleset {
	rs := inflect.NewRuleset()
	for _, v := range []string{"a", "e", "i", "o", "u", "y"} {
		rs.AddPlural(v+"y", v+"ys")
	}
	for _, c := range "bcdfghjklmnpqrstvwxz" {
		rs.AddPlural(string(c)+"y", string(c)+"ies")
	}
	for _, s := range []string{"s", "sh", "ch", "x", "z"} {
		rs.AddPlural(s, s+"es")
	}
	return rs
}()

// Pluralize returns the plural form of a type name:
//
//	Day      -> Days
//	Category -> Categories
//	Address  -> Addresses
//	Person   -> Persons
func Pluralize(s string) string {
	if s == "" {
		return s
	}
	return rules.Pluralize(s)
}

// Decapitalize lowercases the first letter of s.
func Decapitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// Capitalize uppercases the first letter of s.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
