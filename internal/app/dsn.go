package app

import (
	"net/url"
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespace = regexp.MustCompile(`\s+`)
	queryComment    = regexp.MustCompile(`--[^\n]*`)
)

// dsnParts reads a postgres URL or a key=value DSN into host and database name.
func dsnParts(raw string) (host, dbName string) {
	trimmed := strings.TrimSpace(raw)
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Scheme != "" {
		return parsed.Host, strings.Trim(parsed.Path, "/")
	}

	for _, token := range strings.Fields(trimmed) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case "host":
			host = value
		case "dbname":
			dbName = value
		}
	}
	return host, dbName
}

func dbNameFromURL(raw string) string {
	_, name := dsnParts(raw)
	return name
}

// redactDBURL drops credentials so the DSN can be logged.
func redactDBURL(raw string) string {
	host, name := dsnParts(raw)
	if host == "" && name == "" {
		return ""
	}
	return host + "/" + name
}

// formatDBQueryForTrace strips line comments, collapses whitespace and caps the length.
func formatDBQueryForTrace(query string) string {
	query = queryComment.ReplaceAllString(query, " ")
	normalized := strings.TrimSpace(queryWhitespace.ReplaceAllString(query, " "))
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
