package entities

// TransactionType categorizes balance history entries
type TransactionType string

const (
	TransactionTypeInitial        TransactionType = "initial"
	TransactionTypeBetStake       TransactionType = "bet_stake"
	TransactionTypeBetWin         TransactionType = "bet_win"
	TransactionTypeBetTax         TransactionType = "bet_tax"
	TransactionTypeSalary         TransactionType = "salary"
	TransactionTypeSalaryTax      TransactionType = "salary_tax"
	TransactionTypeGiftIn         TransactionType = "gift_in"
	TransactionTypeGiftOut        TransactionType = "gift_out"
	TransactionTypeRevolutionSave TransactionType = "revolution_save"
	TransactionTypeAdmin          TransactionType = "admin"
)

// IsCredit reports whether this transaction type normally increases a balance
func (t TransactionType) IsCredit() bool {
	switch t {
	case TransactionTypeInitial, TransactionTypeBetWin, TransactionTypeBetTax,
		TransactionTypeSalary, TransactionTypeSalaryTax, TransactionTypeGiftIn:
		return true
	}
	return false
}
