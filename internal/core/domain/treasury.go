package domain

// Treasury is a cash box backed by a ledger account.
type Treasury struct {
	TreasuryID ID     `json:"id"`
	Name       string `json:"name"`
	AccountID  ID     `json:"account_id"`
	BranchID   ID     `json:"branch_id,omitempty"`
	AuditFields
}

// BankAccount is a bank account backed by a ledger account.
type BankAccount struct {
	BankAccountID ID     `json:"id"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountID     ID     `json:"account_id"`
	BranchID      ID     `json:"branch_id,omitempty"`
	AuditFields
}

// PaymentMethods lists what a voucher may draw on.
type PaymentMethods struct {
	Treasuries   []Treasury    `json:"treasuries"`
	BankAccounts []BankAccount `json:"bank_accounts"`
}
