package sheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	spreadsheetIDRe = regexp.MustCompile(`https://docs\.google\.com/spreadsheets/d/([^/]+)/`)
	gidRe           = regexp.MustCompile(`[?#&]gid=(\d+)`)
)

// ExportURL builds the CSV export URL for a shared Google Sheets link.
// Links already asking for output=csv are returned unchanged. The sheet tab
// is taken from gid when given, then from the link, then defaults to 0.
func ExportURL(link string, gid *int) (string, error) {
	if strings.Contains(link, "output=csv") {
		return link, nil
	}

	m := spreadsheetIDRe.FindStringSubmatch(link)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrNoSpreadsheetID, link)
	}

	tab := 0
	switch {
	case gid != nil:
		tab = *gid
	default:
		if g := gidRe.FindStringSubmatch(link); g != nil {
			if n, err := strconv.Atoi(g[1]); err == nil {
				tab = n
			}
		}
	}

	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%d", m[1], tab), nil
}
