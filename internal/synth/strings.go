package synth

import (
	"fmt"
	"strings"

	"corpusgen/internal/schema"
)

var currencyCodes = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}

var statusValues = []string{"active", "inactive", "pending", "completed"}

var categoryValues = []string{"standard", "premium", "basic", "advanced"}

// stringRule maps a field-name predicate to a generator. Rules are evaluated
// top to bottom; the first match wins. New heuristics are rows, not edits.
type stringRule struct {
	keywords []string
	generate func(s *source, field string) string
}

func containsAny(field string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(field, keyword) {
			return true
		}
	}
	return false
}

var stringRules = []stringRule{
	{[]string{"email"}, func(s *source, _ string) string { return s.email() }},
	{[]string{"phone", "tel"}, func(s *source, _ string) string { return s.phone() }},
	{[]string{"url", "website", "link"}, func(s *source, _ string) string { return s.url() }},
	{[]string{"address"}, func(s *source, _ string) string { return s.address() }},
	{[]string{"street"}, func(s *source, _ string) string { return s.streetAddress() }},
	{[]string{"city"}, func(s *source, _ string) string { return s.city() }},
	{[]string{"state", "province"}, func(s *source, _ string) string { return s.state() }},
	{[]string{"country"}, func(s *source, _ string) string { return s.country() }},
	{[]string{"zip", "postal"}, func(s *source, _ string) string { return s.zipCode() }},
	{[]string{"name"}, generatePersonName},
	{[]string{"company", "organization"}, func(s *source, _ string) string { return s.company() }},
	{[]string{"job", "title", "position"}, func(s *source, _ string) string { return s.jobTitle() }},
	{[]string{"date"}, func(s *source, _ string) string { return s.date() }},
	{[]string{"time"}, func(s *source, _ string) string { return s.clockTime() }},
	{[]string{"description", "comment", "note"}, func(s *source, _ string) string {
		return s.sentence(5 + s.rng.Intn(11))
	}},
	{[]string{"message", "text", "content"}, func(s *source, _ string) string {
		return s.paragraph(2 + s.rng.Intn(3))
	}},
	{[]string{"id", "uuid"}, func(s *source, _ string) string { return s.uuidString() }},
	{[]string{"color"}, func(s *source, _ string) string { return s.colorName() }},
	{[]string{"username", "user"}, func(s *source, _ string) string { return s.username() }},
	{[]string{"password"}, func(s *source, _ string) string { return s.password() }},
	{[]string{"domain"}, func(s *source, _ string) string { return s.domain() }},
	{[]string{"ip"}, func(s *source, _ string) string { return s.ipv4() }},
	{[]string{"mac"}, func(s *source, _ string) string { return s.macAddress() }},
	{[]string{"currency"}, func(s *source, _ string) string { return s.pick(currencyCodes) }},
	{[]string{"status"}, func(s *source, _ string) string { return s.pick(statusValues) }},
	{[]string{"type", "category"}, func(s *source, _ string) string { return s.pick(categoryValues) }},
	{[]string{"version"}, func(s *source, _ string) string {
		return fmt.Sprintf("%d.%d.%d", 1+s.rng.Intn(3), s.rng.Intn(10), s.rng.Intn(21))
	}},
}

// generatePersonName refines the "name" keyword by sub-keyword.
func generatePersonName(s *source, field string) string {
	switch {
	case strings.Contains(field, "first"):
		return s.firstName()
	case strings.Contains(field, "last"):
		return s.lastName()
	case strings.Contains(field, "company"), strings.Contains(field, "organization"), strings.Contains(field, "vendor"):
		return s.company()
	default:
		return s.fullName()
	}
}

// phonePatterns are the pattern hints recognized as phone-shaped.
var phonePatterns = map[string]bool{
	`^[+]?[0-9\-\s()]+$`:         true,
	`^[0-9]{3}-[0-9]{3}-[0-9]{4}$`: true,
}

// generateString picks a string value from format hints, pattern hints, and
// the ordered field-name rule table, in that precedence.
func (s *source) generateString(field string, doc *schema.Document) string {
	switch doc.Format {
	case "email":
		return s.email()
	case "uri", "url":
		return s.url()
	case "date":
		return s.date()
	case "date-time":
		return s.dateTime()
	case "time":
		return s.clockTime()
	}

	lower := strings.ToLower(field)
	if doc.Pattern != "" && phonePatterns[doc.Pattern] {
		return s.phone()
	}

	for _, rule := range stringRules {
		if containsAny(lower, rule.keywords) {
			return rule.generate(s, lower)
		}
	}
	return s.capitalizedWord()
}
