package domain

import (
	"strings"
	"time"
)

// PaymentMethod is the canonical set of method identifiers understood by the
// store, after mapping from UI-facing labels.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCard         PaymentMethod = "CARD"
	MethodDebitCard    PaymentMethod = "DEBIT_CARD"
	MethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodComp         PaymentMethod = "COMP"
)

// methodAliases maps raw UI-facing method spellings to the store enum. UI and
// store spellings have diverged historically, so every raw string goes through
// this table before persistence.
var methodAliases = map[string]PaymentMethod{
	"cash":          MethodCash,
	"card":          MethodCard,
	"credit card":   MethodCard,
	"credit_card":   MethodCard,
	"debit card":    MethodDebitCard,
	"debit_card":    MethodDebitCard,
	"mobile":        MethodMobileMoney,
	"mobile money":  MethodMobileMoney,
	"mobile_money":  MethodMobileMoney,
	"bank transfer": MethodBankTransfer,
	"bank_transfer": MethodBankTransfer,
	"transfer":      MethodBankTransfer,
	"comp":          MethodComp,
	"complimentary": MethodComp,
}

// CanonicalMethod maps a raw UI-facing method string to its canonical store
// value. The second return is false when the method is not recognized.
func CanonicalMethod(raw string) (PaymentMethod, bool) {
	m, ok := methodAliases[strings.ToLower(strings.TrimSpace(raw))]
	return m, ok
}

// PaymentStatus indicates the outcome of a payment capture.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentVoided    PaymentStatus = "voided"
)

// Payment is a captured payment against a folio. Amount is integer minor
// units. Rows are append-only.
type Payment struct {
	PaymentID   string        `json:"paymentID"` // Primary Key (UUID)
	FolioID     string        `json:"folioID"`   // FK -> folios.folio_id
	Amount      int64         `json:"amount"`
	Method      PaymentMethod `json:"method"`
	Status      PaymentStatus `json:"status"`
	ProcessedBy string        `json:"processedBy"` // StaffID reference
	CreatedAt   time.Time     `json:"createdAt"`
}
