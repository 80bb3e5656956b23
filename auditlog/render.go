// Package auditlog turns governance audit entries into display lines.
package auditlog

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Metadata is the free-form, action dependent payload of an audit entry
type Metadata map[string]interface{}

type formatter func(action string, md Metadata) []string

// formatters maps every recognized action to its formatter. Actions missing
// here use the generic formatter.
var formatters = map[string]formatter{
	"user.role_updated":                formatRoleUpdated,
	"user.activated":                   formatUserStatus,
	"user.deactivated":                 formatUserStatus,
	"user.municipality_updated":        formatUserMunicipality,
	"municipality.activated":           formatMunicipalityStatus,
	"municipality.deactivated":         formatMunicipalityStatus,
	"municipality.employer_assigned":   formatEmployerAssigned,
	"municipality.coordinates_updated": formatCoordinates,
	"municipality.created":             formatCoordinates,
}

// Actions returns the recognized actions, sorted
func Actions() []string {
	out := make([]string, 0, len(formatters))
	for a := range formatters {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Fallback returns the sentence shown when an entry has nothing to render
func Fallback(action string) string {
	if action == "" {
		action = "this action"
	}
	return fmt.Sprintf("No additional details recorded for %s.", action)
}

// Render returns the display lines for an audit entry. It never fails: a nil
// metadata map, or one yielding no lines, renders the single fallback
// sentence.
func Render(action string, md Metadata) []string {
	if md == nil {
		return []string{Fallback(action)}
	}

	f, ok := formatters[action]
	if !ok {
		f = formatGeneric
	}
	lines := f(action, md)
	if len(lines) == 0 {
		return []string{Fallback(action)}
	}
	return lines
}

func formatRoleUpdated(_ string, md Metadata) []string {
	return []string{
		fmt.Sprintf("Role change: %s (%s)", personName(md), md.text("email", "no email")),
		fmt.Sprintf("From: %s → To: %s", md.text("oldRole", "N/A"), md.text("newRole", "N/A")),
	}
}

func formatUserStatus(action string, md Metadata) []string {
	lines := []string{fmt.Sprintf("%s: %s", statusVerb(action), personName(md))}
	if email := md.text("email", ""); email != "" {
		lines = append(lines, "Email: "+email)
	}
	return lines
}

func formatUserMunicipality(_ string, md Metadata) []string {
	return []string{
		"User: " + personName(md),
		"Municipality: " + md.text("municipalityName", md.text("municipalityId", "N/A")),
	}
}

func formatMunicipalityStatus(action string, md Metadata) []string {
	return []string{fmt.Sprintf("%s: %s", statusVerb(action), md.text("name", "Unknown municipality"))}
}

func formatEmployerAssigned(_ string, md Metadata) []string {
	municipality := md.text("municipalityName", md.text("name", "Unknown municipality"))

	employer := md.text("employerName", "")
	email := md.text("employerEmail", "")
	switch {
	case employer != "" && email != "":
		employer = fmt.Sprintf("%s (%s)", employer, email)
	case employer == "" && email != "":
		employer = email
	case employer == "":
		employer = "Unknown user"
	}

	return []string{
		"Municipality: " + municipality,
		"Employer: " + employer,
	}
}

func formatCoordinates(_ string, md Metadata) []string {
	return []string{
		"Municipality: " + md.text("name", "Unknown municipality"),
		fmt.Sprintf("Coordinates: %s, %s | Radius: %s km",
			md.number("centerLat"), md.number("centerLng"), md.number("radiusKm")),
	}
}

func formatGeneric(_ string, md Metadata) []string {
	var lines []string
	name, email := md.text("name", ""), md.text("email", "")
	if name != "" || email != "" {
		line := "User: " + md.text("name", "N/A")
		if email != "" {
			line += fmt.Sprintf(" (%s)", email)
		}
		lines = append(lines, line)
	}
	if m := md.text("municipalityName", ""); m != "" {
		lines = append(lines, "Municipality: "+m)
	}
	return lines
}

func statusVerb(action string) string {
	if strings.HasSuffix(action, ".activated") {
		return "Activated"
	}
	return "Deactivated"
}

func personName(md Metadata) string {
	return md.text("name", md.text("email", "Unknown user"))
}

// text returns the value under key rendered as a string, or def when the
// value is missing, null, empty, zero or false.
func (md Metadata) text(key, def string) string {
	v, ok := md[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return def
		}
		return t
	case bool:
		if !t {
			return def
		}
		return "true"
	case float64:
		if t == 0 || math.IsNaN(t) {
			return def
		}
		return formatNumber(t)
	case int:
		if t == 0 {
			return def
		}
		return strconv.Itoa(t)
	default:
		// objects and arrays have no useful single-line form
		return def
	}
}

// number renders a numeric value, or N/A when it is missing, null or not a
// finite number. Numeric strings are accepted as sent.
func (md Metadata) number(key string) string {
	switch t := md[key].(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "N/A"
		}
		return formatNumber(t)
	case int:
		return strconv.Itoa(t)
	case string:
		if _, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return strings.TrimSpace(t)
		}
	}
	return "N/A"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
