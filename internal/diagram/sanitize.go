package diagram

import (
	"regexp"
	"strings"
)

var (
	nonIDChars    = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// SanitizeID turns a raw identifier into a Mermaid-safe node id: anything
// outside [a-zA-Z0-9_] becomes "_", runs of "_" collapse, and a single
// leading and trailing "_" is trimmed.
func SanitizeID(raw string) string {
	id := nonIDChars.ReplaceAllString(raw, "_")
	id = underscoreRun.ReplaceAllString(id, "_")
	id = strings.TrimPrefix(id, "_")
	return strings.TrimSuffix(id, "_")
}

var labelEscaper = strings.NewReplacer(
	`"`, "#quot;",
	"[", "#lsqb;",
	"]", "#rsqb;",
	"{", "#lbrace;",
	"}", "#rbrace;",
	"(", "#lpar;",
	")", "#rpar;",
	"<", "#lt;",
	">", "#gt;",
	"|", "#vert;",
)

// EscapeLabel replaces characters that are structural in Mermaid with their
// named entity tokens.
func EscapeLabel(s string) string {
	return labelEscaper.Replace(s)
}

// ClassName returns the classDef name for an agent. Unlike SanitizeID it
// does not collapse runs, so "a--b" and "a-b" stay distinct.
func ClassName(agent string) string {
	return "agent_" + nonIDChars.ReplaceAllString(agent, "_")
}
