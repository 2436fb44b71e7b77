package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Currency  string             `json:"currency"`
	Balance   pgtype.Numeric     `json:"balance"`
	Frozen    bool               `json:"frozen"`
	Version   int64              `json:"version"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type AuditLog struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	Action       string             `json:"action"`
	ResourceType string             `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	IpAddress    string             `json:"ip_address"`
	RequestID    string             `json:"request_id"`
	BeforeState  []byte             `json:"before_state"`
	AfterState   []byte             `json:"after_state"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type LedgerEntry struct {
	ID            string             `json:"id"`
	AccountID     string             `json:"account_id"`
	Kind          string             `json:"kind"`
	Amount        pgtype.Numeric     `json:"amount"`
	BalanceBefore pgtype.Numeric     `json:"balance_before"`
	BalanceAfter  pgtype.Numeric     `json:"balance_after"`
	ReferenceKind pgtype.Text        `json:"reference_kind"`
	ReferenceID   pgtype.Text        `json:"reference_id"`
	Description   string             `json:"description"`
	Metadata      []byte             `json:"metadata"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type Marathon struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	IsActive       bool               `json:"is_active"`
	MaxPlayers     int32              `json:"max_players"`
	CurrentPlayers int32              `json:"current_players"`
	EntryFee       pgtype.Numeric     `json:"entry_fee"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

type MarathonParticipant struct {
	ID         string             `json:"id"`
	MarathonID string             `json:"marathon_id"`
	UserID     string             `json:"user_id"`
	PaymentID  pgtype.Text        `json:"payment_id"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type PaymentRequest struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	Purpose            string             `json:"purpose"`
	MarathonID         pgtype.Text        `json:"marathon_id"`
	Amount             pgtype.Numeric     `json:"amount"`
	PayAmount          pgtype.Numeric     `json:"pay_amount"`
	PayCurrency        string             `json:"pay_currency"`
	PayAddress         string             `json:"pay_address"`
	Network            string             `json:"network"`
	ExternalID         string             `json:"external_id"`
	Status             string             `json:"status"`
	FulfillmentStatus  string             `json:"fulfillment_status"`
	FulfillmentError   string             `json:"fulfillment_error"`
	LastWebhookPayload []byte             `json:"last_webhook_payload"`
	ExpiresAt          pgtype.Timestamptz `json:"expires_at"`
	CreatedAt          pgtype.Timestamptz `json:"created_at"`
	UpdatedAt          pgtype.Timestamptz `json:"updated_at"`
}

type PayoutWallet struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Address   string             `json:"address"`
	Network   string             `json:"network"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type WithdrawalRequest struct {
	ID                  string             `json:"id"`
	UserID              string             `json:"user_id"`
	AccountID           string             `json:"account_id"`
	Amount              pgtype.Numeric     `json:"amount"`
	Status              string             `json:"status"`
	DestinationAddress  string             `json:"destination_address"`
	Network             string             `json:"network"`
	TransactionNumber   string             `json:"transaction_number"`
	LinkedLedgerEntryID string             `json:"linked_ledger_entry_id"`
	ReviewNote          string             `json:"review_note"`
	ProcessedAt         pgtype.Timestamptz `json:"processed_at"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
	UpdatedAt           pgtype.Timestamptz `json:"updated_at"`
}
