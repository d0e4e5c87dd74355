// Package sheet turns a translation spreadsheet exported as CSV into one
// document per language.
//
// The first row is the header. One column holds the translation keys and
// every other named column is a language:
//
//	key,en,ru
//	hero.title,Light Side,Светлая сторона
//	# section comment,,
//	hero.cta,Play now,Играть
//
// Typical use against a shared Google Sheet:
//
//	url, err := sheet.ExportURL(link, nil)
//	rows, err := sheet.Fetch(ctx, url)
//	res, err := sheet.Build(rows, sheet.WithAllow("en", "ru"))
//	paths, err := sheet.Write("./locales", "default", res)
//
// Keys are split on "." into nested objects by default. When a key is both
// a value and a parent ("a" and "a.b") the later row wins.
package sheet
