package chat

import (
	"regexp"
	"strings"

	"github.com/cardsage/cardsage/providers"
)

const baseSearchQuery = "latest Indian credit cards"

// queryRule pairs a keyword predicate with the phrase it contributes. Rules
// are evaluated in priority order and the first match wins; do not reorder
// without revisiting the heuristics.
type queryRule struct {
	matches func(msg string) bool
	phrase  func(msg string) string
}

var queryRules = []queryRule{
	{matchesAny(" vs ", " vs. ", "compare"), comparePhrase},
	{matchesAny("cashback", "cash back"), staticPhrase("best cashback credit cards India")},
	{matchesAny("travel", "lounge"), staticPhrase("best travel credit cards airport lounge access India")},
	{matchesAny("premium", "lifestyle", "luxury"), staticPhrase("premium lifestyle credit cards India")},
	{matchesAny("business"), staticPhrase("best business credit cards India")},
	{matchesAny("first card", "first credit card", "new to credit", "beginner"), staticPhrase("best first credit cards for beginners India")},
	{matchesAny("reward"), staticPhrase("best reward points credit cards India")},
}

// EnhanceSearchQuery derives the web-search query from the user's latest
// message. Pure and deterministic: the same message always yields the same
// query. The trusted-site clause is always appended.
func EnhanceSearchQuery(message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))

	query := baseSearchQuery
	for _, rule := range queryRules {
		if rule.matches(msg) {
			query += " " + rule.phrase(msg)
			break
		}
	}

	return query + " " + siteClause()
}

func matchesAny(keywords ...string) func(string) bool {
	return func(msg string) bool {
		for _, kw := range keywords {
			if strings.Contains(msg, kw) {
				return true
			}
		}
		return false
	}
}

func staticPhrase(phrase string) func(string) string {
	return func(string) string { return phrase }
}

var compareSplit = regexp.MustCompile(`\s+(?:vs\.?|versus|and)\s+|,\s*`)

// comparePhrase pulls the compared entities out of the message and rebuilds
// them as an explicit "compare X vs Y" fragment.
func comparePhrase(msg string) string {
	msg = strings.TrimSpace(strings.TrimPrefix(msg, "compare"))

	parts := compareSplit.Split(msg, -1)
	entities := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			entities = append(entities, part)
		}
	}

	if len(entities) < 2 {
		return "compare credit cards India"
	}
	return "compare " + strings.Join(entities, " vs ")
}

// siteClause restricts search results to the trusted domain allow-list.
func siteClause() string {
	sites := make([]string, len(providers.DefaultSearchDomains))
	for i, domain := range providers.DefaultSearchDomains {
		sites[i] = "site:" + domain
	}
	return strings.Join(sites, " OR ")
}
