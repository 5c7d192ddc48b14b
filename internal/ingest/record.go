package ingest

import "errors"

// DateLayout is the canonical ISO-8601 calendar date format used across the pipeline.
const DateLayout = "2006-01-02"

// ErrNoUsableData signals a parse that produced zero valid rows. This is a
// user-facing failure distinct from a read error: the pipeline must not run
// and any previously loaded dataset stays untouched.
var ErrNoUsableData = errors.New("no usable data rows in input")

// TransactionRecord is one purchase event, created once by the parser from one
// input row and immutable thereafter.
type TransactionRecord struct {
	CustomerID    string  `json:"customer_id"`
	Date          string  `json:"transaction_date"` // YYYY-MM-DD
	Amount        float64 `json:"transaction_amount"`
	Category      string  `json:"product_category"`
	PaymentMethod string  `json:"payment_method"`
	CustomerAge   int     `json:"customer_age"`
	Location      string  `json:"customer_location"`

	// Optional passthrough columns, preserved verbatim when present.
	Name  string `json:"customer_name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Canonical column keys. Export uses these names for the header row.
const (
	colCustomerID    = "customer_id"
	colDate          = "transaction_date"
	colAmount        = "transaction_amount"
	colCategory      = "product_category"
	colPayment       = "payment_method"
	colAge           = "customer_age"
	colLocation      = "customer_location"
	colName          = "customer_name"
	colEmail         = "email"
	colPhone         = "phone"
)

// headerAliases maps every accepted header spelling to its canonical column key.
// Two dialects exist in the wild: the snake_case export schema and the
// Indonesian PascalCase schema. Resolution happens once per parse, not per field.
var headerAliases = map[string]string{
	colCustomerID: colCustomerID,
	colDate:       colDate,
	colAmount:     colAmount,
	colCategory:   colCategory,
	colPayment:    colPayment,
	colAge:        colAge,
	colLocation:   colLocation,
	colName:       colName,
	colEmail:      colEmail,
	colPhone:      colPhone,

	"CustomerID":       colCustomerID,
	"TanggalTransaksi": colDate,
	"NilaiTransaksi":   colAmount,
	"KategoriProduk":   colCategory,
	"MetodePembayaran": colPayment,
	"Usia":             colAge,
	"Lokasi":           colLocation,
}

const unknownValue = "Unknown"
