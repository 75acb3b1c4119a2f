package venmo

import "strings"

var statementHeader = []string{
	"", "ID", "Datetime", "Type", "Status", "Note", "From", "To", "Amount (total)", "Amount (tip)",
	"Amount (fee)", "Funding Source", "Destination", "Beginning Balance", "Ending Balance",
	"Statement Period Venmo Fees", "Terminal Location", "Year to Date Venmo Fees", "Disclaimer",
}

const statementPreamble = "Account Statement - (@Jane-Doe) ,,,\nAccount Activity,,,\n"

func csvRow(cells map[string]string) string {
	row := make([]string, len(statementHeader))
	for i, column := range statementHeader {
		row[i] = cells[column]
	}
	return strings.Join(row, ",")
}

func beginningRow(balance string) string {
	return csvRow(map[string]string{"Beginning Balance": balance})
}

func endingRow(balance string) string {
	return csvRow(map[string]string{
		"Ending Balance":              balance,
		"Statement Period Venmo Fees": "$0.00",
		"Year to Date Venmo Fees":     "$0.00",
		"Disclaimer":                  "In case of errors or questions about your electronic transfers",
	})
}

func transactionRow(id, datetime, kind, note, from, to, amount, funding, destination string) string {
	return csvRow(map[string]string{
		"ID":                id,
		"Datetime":          datetime,
		"Type":              kind,
		"Status":            "Complete",
		"Note":              note,
		"From":              from,
		"To":                to,
		"Amount (total)":    amount,
		"Funding Source":    funding,
		"Destination":       destination,
		"Terminal Location": "Venmo",
	})
}

func buildStatement(rows ...string) []byte {
	return []byte(statementPreamble + strings.Join(statementHeader, ",") + "\n" + strings.Join(rows, "\n") + "\n")
}
