package ynab

import "github.com/etnz/invest"

type budgetResponse struct {
	Data struct {
		Budget struct {
			ID             string `json:"id"`
			Name           string `json:"name"`
			CurrencyFormat struct {
				ISOCode string `json:"iso_code"`
			} `json:"currency_format"`
		} `json:"budget"`
	} `json:"data"`
}

type account struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Note    string `json:"note"`
	Closed  bool   `json:"closed"`
	Deleted bool   `json:"deleted"`
}

type accountsResponse struct {
	Data struct {
		Accounts []account `json:"accounts"`
	} `json:"data"`
}

// transactionsResponse relies on invest.Transaction decoding the API field
// names.
type transactionsResponse struct {
	Data struct {
		Transactions []invest.Transaction `json:"transactions"`
	} `json:"data"`
}

// saveTransactions relies on invest.Adjustment encoding the API field names.
type saveTransactions struct {
	Transactions []invest.Adjustment `json:"transactions"`
}

type saveResponse struct {
	Data struct {
		TransactionIDs     []string `json:"transaction_ids"`
		DuplicateImportIDs []string `json:"duplicate_import_ids"`
	} `json:"data"`
}

type errorResponse struct {
	Error *APIError `json:"error"`
}
