package sheets

// ══════════════════════════════════════════════════════════════════════════════
// DATA TRANSFER OBJECTS
// Wire shapes of the Google Sheets values API (spreadsheets.values.get).
// ══════════════════════════════════════════════════════════════════════════════

// ValueRange is the response of the values.get endpoint.
type ValueRange struct {
	// Range is the A1-notation range the values cover.
	Range string `json:"range"`

	// MajorDimension is "ROWS" or "COLUMNS"; the client always asks for rows.
	MajorDimension string `json:"majorDimension"`

	// Values holds the cell rows. Trailing empty cells are omitted by the
	// API, so rows can be shorter than the header row.
	Values [][]string `json:"values"`
}

// APIError is the error envelope the Sheets API returns on non-2xx status.
type APIError struct {
	ErrorBody struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.ErrorBody.Status + ": " + e.ErrorBody.Message
}
