package pageinsight

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// loginURLSignals are plain, case-sensitive substrings of the page URL.
var loginURLSignals = []string{"login", "signin"}

// loginRules must all hold for a page to count as a login page.
var loginRules = []func(pageURL string, doc *Document) bool{
	hasLoginURLSignal,
	hasPasswordForm,
}

// IsLoginPage reports whether the page looks like a login page: its URL
// mentions login/signin and it has a password input inside a form. This is a
// heuristic and will misjudge some pages.
func IsLoginPage(pageURL string, doc *Document) bool {
	for _, rule := range loginRules {
		if !rule(pageURL, doc) {
			return false
		}
	}
	return true
}

func hasLoginURLSignal(pageURL string, _ *Document) bool {
	for _, signal := range loginURLSignals {
		if strings.Contains(pageURL, signal) {
			return true
		}
	}
	return false
}

func hasPasswordForm(_ string, doc *Document) bool {
	found := false
	doc.Find("form input[type]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(s.AttrOr("type", "")), "password") {
			found = true
			return false
		}
		return true
	})
	return found
}
