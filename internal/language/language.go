package language

import "strings"

type entry struct {
	code    string // ISO 639-1 (2-letter)
	display string // Human-readable name
}

// The languages the article prompts know how to name. Anything outside this
// table is passed through as-is rather than rejected, so an exotic code still
// produces a usable prompt directive.
var languages = []entry{
	{"en", "English"},
	{"sv", "Swedish"},
	{"de", "German"},
	{"fr", "French"},
	{"es", "Spanish"},
	{"no", "Norwegian"},
	{"da", "Danish"},
	{"fi", "Finnish"},
	{"nl", "Dutch"},
	{"it", "Italian"},
	{"pt", "Portuguese"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"zh", "Chinese"},
}

var byCode map[string]*entry

func init() {
	byCode = make(map[string]*entry, len(languages))
	for i := range languages {
		byCode[languages[i].code] = &languages[i]
	}
}

// Normalize lowercases a language code and strips any region subtag, so feed
// values like "en-US" or "pt_BR" collapse onto the bare language code.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if idx := strings.IndexAny(code, "-_"); idx > 0 {
		code = code[:idx]
	}
	return code
}

// DisplayName returns a human-readable language name for a recognized code.
// Unrecognized codes pass through verbatim instead of failing, matching how
// the prompt builder treats languages it has no name for.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if e, ok := byCode[strings.ToLower(trimmed)]; ok {
		return e.display
	}
	return trimmed
}

// Known reports whether a code (after normalization) is in the display table.
func Known(code string) bool {
	_, ok := byCode[Normalize(code)]
	return ok
}
