package banking

type BalanceResponse struct {
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

type SavingsPosition struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	APY    float64 `json:"apy"`
}

type SavingsBalanceResponse struct {
	Balance   float64           `json:"balance"`
	Currency  string            `json:"currency"`
	Positions []SavingsPosition `json:"positions"`
}

type VaultRate struct {
	Vault       string  `json:"vault"`
	APY         float64 `json:"apy"`
	Description string  `json:"description"`
}

type VaultRatesResponse struct {
	Rates []VaultRate `json:"rates"`
}

type Transaction struct {
	ID           string  `json:"id"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Type         string  `json:"type"`   // send, receive, deposit, withdrawal
	Status       string  `json:"status"` // pending, completed, failed
	Description  string  `json:"description"`
	CreatedAt    string  `json:"createdAt"`
	Counterparty string  `json:"counterparty,omitempty"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`
}

type ProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"createdAt"`
	Verified  bool   `json:"verified"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type SearchUsersResponse struct {
	Users []UserSummary `json:"users"`
}

type SendMoneyRequest struct {
	RecipientEmail string  `json:"recipientEmail"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency,omitempty"`
	Note           string  `json:"note,omitempty"`
}

type SavingsActionRequest struct {
	Amount float64 `json:"amount"`
	Vault  string  `json:"vault,omitempty"`
}

type ActionResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
}
