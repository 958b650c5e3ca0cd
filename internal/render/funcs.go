package render

import (
	"html/template"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"cv-builder/internal/domain"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultColor = "#3b82f6"

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"shortDate":     shortDate,
		"longDate":      longDate,
		"initials":      initials,
		"levelPercent":  levelPercent,
		"skillLevel":    skillLevelLabel,
		"languageLevel": languageLevelLabel,
		"upper":         upper,
		"linkLabel":     linkLabel,
		"notLast":       func(i, n int) bool { return i < n-1 },
	}
}

// upper builds a Caser per call; Casers are not safe for concurrent use.
func upper(s string) string { return cases.Upper(language.Spanish).String(s) }

// shortDate renders "YYYY-MM" as "Ene 2024". Input that does not carry a
// valid month is returned unchanged.
func shortDate(s string) string { return formatDate(s, shortMonths) }

// longDate renders "YYYY-MM" as "Enero 2024".
func longDate(s string) string { return formatDate(s, longMonths) }

func formatDate(s string, months [12]string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return s
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return s
	}
	return months[m-1] + " " + parts[0]
}

// initials takes the first letter of each space-separated word, keeping at
// most two.
func initials(name string) string {
	var out []rune
	for _, w := range strings.Split(name, " ") {
		if w == "" {
			continue
		}
		out = append(out, []rune(w)[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

func levelPercent(l domain.SkillLevel) int {
	switch l {
	case domain.SkillBasic:
		return 25
	case domain.SkillIntermediate:
		return 50
	case domain.SkillAdvanced:
		return 75
	default:
		return 100
	}
}

func skillLevelLabel(l domain.SkillLevel) string {
	if s, ok := skillLevelLabels[l]; ok {
		return s
	}
	return string(l)
}

func languageLevelLabel(l domain.LanguageLevel) string {
	if s, ok := languageLevelLabels[l]; ok {
		return s
	}
	return string(l)
}

// linkLabel shortens a certification URL to its registrable domain.
func linkLabel(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	candidate := raw
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return raw
	}
	host := parsed.Hostname()
	if host == "" {
		return raw
	}
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}

// fontClass maps the font setting to a stylesheet class. Unknown fonts use Inter.
func fontClass(font string) string {
	switch font {
	case domain.FontRoboto, domain.FontPlayfair:
		return "font-" + font
	default:
		return "font-" + domain.FontInter
	}
}

func safeColor(c string) string {
	c = strings.TrimSpace(c)
	if colorPattern.MatchString(c) {
		return c
	}
	return DefaultColor
}
