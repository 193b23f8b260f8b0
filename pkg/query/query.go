// Package query builds OverpassQL queries from a raw query and settings.
package query

import (
	"strings"
	"unicode"
)

const (
	statementSeparator = ";"
	settingsPrefix     = "["
	outKeyword         = "out"
)

// Build completes a raw query: global settings are prepended unless the query
// already starts with its own, a missing trailing semicolon is added and an
// out statement with the given verbosity is appended when the last statement
// is not one already.
func Build(query string, settings Settings, out Output) string {
	query = strings.TrimSpace(query)

	if !strings.HasPrefix(query, settingsPrefix) && !settings.IsEmpty() {
		query = strings.Join(settings.Statements(), "") + statementSeparator + "\n" + query
	}

	if !strings.HasSuffix(query, statementSeparator) {
		query += statementSeparator
	}

	if !isOutStatement(lastStatement(query)) {
		if out == "" {
			out = OutputBody
		}
		query += "\n" + outKeyword + " " + out.String() + statementSeparator
	}

	return query
}

// lastStatement expects a query terminated by a semicolon.
func lastStatement(query string) string {
	statements := strings.Split(query, statementSeparator)
	return statements[len(statements)-2]
}

func isOutStatement(statement string) bool {
	statement = strings.TrimLeftFunc(statement, unicode.IsSpace)

	rest, found := strings.CutPrefix(statement, outKeyword)
	if !found {
		return false
	}

	return rest == "" || unicode.IsSpace(rune(rest[0]))
}
