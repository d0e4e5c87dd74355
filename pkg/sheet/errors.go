package sheet

import "errors"

var (
	ErrNoSpreadsheetID = errors.New("sheet: cannot extract spreadsheet id from url")
	ErrFetchFailed     = errors.New("sheet: fetch failed")
	ErrEmptyCSV        = errors.New("sheet: no header row")
	ErrNoKeyColumn     = errors.New("sheet: key column not found")
	ErrNoLanguages     = errors.New("sheet: no language columns")
	ErrKeyCollision    = errors.New("sheet: key collision")
)
