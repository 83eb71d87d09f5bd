package model

import "time"

type Member struct {
	ID               string     `json:"id"`
	FullName         string     `json:"full_name"`
	ContactNumber    *string    `json:"contact_number,omitempty"`
	Email            *string    `json:"email,omitempty"`
	Address          *string    `json:"address,omitempty"`
	MembershipType   *string    `json:"membership_type,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	FineDues         float64    `json:"fine_dues"`
	BorrowingHistory *string    `json:"borrowing_history,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type Staff struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name"`
	Role                     *string   `json:"role,omitempty"`
	ContactInfo              *string   `json:"contact_info,omitempty"`
	ShiftTimings             *string   `json:"shift_timings,omitempty"`
	AssignedResponsibilities *string   `json:"assigned_responsibilities,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
}

// Transaction is one loan: issue, due and (optional) return of a book by a
// member. TransactionID is the human-facing unique business key.
type Transaction struct {
	ID            string     `json:"id"`
	TransactionID string     `json:"transaction_id"`
	MemberID      string     `json:"member_id"`
	BookID        string     `json:"book_id"`
	IssueDate     time.Time  `json:"issue_date"`
	DueDate       time.Time  `json:"due_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	FineDetails   *string    `json:"fine_details,omitempty"`
	RenewalCount  int        `json:"renewal_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

const (
	ReservationStatusActive    = "Active"
	ReservationStatusFulfilled = "Fulfilled"
	ReservationStatusCancelled = "Cancelled"
)

type Reservation struct {
	ID              string    `json:"id"`
	ReservationID   string    `json:"reservation_id"`
	BookID          string    `json:"book_id"`
	MemberID        string    `json:"member_id"`
	ReservationDate time.Time `json:"reservation_date"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

const (
	FineStatusUnpaid = "Unpaid"
	FineStatusPaid   = "Paid"
	FineStatusWaived = "Waived"
)

type Fine struct {
	ID            string     `json:"id"`
	FineID        string     `json:"fine_id"`
	MemberID      string     `json:"member_id"`
	Amount        float64    `json:"amount"`
	Reason        string     `json:"reason"`
	PaymentStatus string     `json:"payment_status"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
