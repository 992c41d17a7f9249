package renderer

import (
	"github.com/etnz/captable"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// shares formats a share count with thousands separators.
func shares(n captable.Shares) string {
	return printer.Sprintf("%d", int64(n))
}

// votes formats a voting power with thousands separators.
func votes(n int64) string {
	return printer.Sprintf("%d", n)
}

// sharesOrDash is like shares, but renders zero as a dash.
func sharesOrDash(n captable.Shares) string {
	if n == 0 {
		return "-"
	}
	return shares(n)
}

// holding returns the count of class c in h.
func holding(h captable.Holder, c captable.ShareClass) captable.Shares {
	for _, x := range h.Holdings {
		if x.Class == c {
			return x.Count
		}
	}
	return 0
}
