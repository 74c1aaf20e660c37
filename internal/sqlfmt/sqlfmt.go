package sqlfmt

import (
	"regexp"
	"strings"
)

// Keywords recognized by Format, longest-first so compound keywords like
// LEFT JOIN win over JOIN.
var keywords = []string{
	"SELECT", "FROM", "WHERE", "LEFT JOIN", "RIGHT JOIN", "INNER JOIN", "OUTER JOIN",
	"FULL JOIN", "CROSS JOIN", "JOIN", "ON", "AND", "OR", "NOT", "IN", "EXISTS", "BETWEEN",
	"LIKE", "IS", "NULL", "GROUP BY", "HAVING", "ORDER BY", "ASC", "DESC", "LIMIT",
	"OFFSET", "UNION ALL", "UNION", "INTERSECT", "EXCEPT", "WITH", "AS", "CASE",
	"WHEN", "THEN", "ELSE", "END", "IF", "DISTINCT", "ALL", "COUNT", "SUM", "AVG",
	"MIN", "MAX", "SUBSTRING", "CONCAT", "COALESCE", "CAST", "CONVERT", "INSERT",
	"UPDATE", "DELETE", "CREATE", "DROP", "ALTER", "TABLE", "INDEX", "VIEW",
}

var keywordPatterns = buildPatterns()

func buildPatterns() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(keywords))
	for _, kw := range keywords {
		m[kw] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return m
}

var (
	reRuns        = regexp.MustCompile(`[ \t]+`)
	reTrailWS     = regexp.MustCompile(` +\n`)
	reLeadWS      = regexp.MustCompile(`\n +`)
	reSpaceComma  = regexp.MustCompile(` ,`)
	reCommaSquish = regexp.MustCompile(`,([a-zA-Z0-9_])`)
	reOpenParen   = regexp.MustCompile(`\( `)
	reCloseParen  = regexp.MustCompile(` \)`)
)

// Format uppercases SQL keywords and normalizes whitespace, comma and
// parenthesis spacing. It does not parse the query; string literals
// containing keyword-shaped words are uppercased too.
func Format(sqlText string) string {
	if strings.TrimSpace(sqlText) == "" {
		return sqlText
	}

	result := sqlText
	for _, kw := range keywords {
		result = keywordPatterns[kw].ReplaceAllString(result, kw)
	}

	result = reRuns.ReplaceAllString(result, " ")
	result = reTrailWS.ReplaceAllString(result, "\n")
	result = reLeadWS.ReplaceAllString(result, "\n")
	result = reSpaceComma.ReplaceAllString(result, ",")
	result = reCommaSquish.ReplaceAllString(result, ", $1")
	result = reOpenParen.ReplaceAllString(result, "(")
	result = reCloseParen.ReplaceAllString(result, ")")

	return strings.TrimSpace(result)
}
