package model

import "time"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type BookRequest struct {
	AccessionNumber *string    `json:"accession_number"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Publisher       *string    `json:"publisher"`
	Edition         *string    `json:"edition"`
	ISBN            *string    `json:"isbn"`
	Genre           *string    `json:"genre"`
	Language        *string    `json:"language"`
	Pages           *int       `json:"pages"`
	Price           *float64   `json:"price"`
	DateOfPurchase  *time.Time `json:"date_of_purchase"`
	PublishedDate   *time.Time `json:"published_date"`
	CurrentStatus   *string    `json:"current_status"`
	ShelfNumber     *string    `json:"shelf_number"`
}

type MemberRequest struct {
	FullName         string     `json:"full_name"`
	ContactNumber    *string    `json:"contact_number"`
	Email            *string    `json:"email"`
	Address          *string    `json:"address"`
	MembershipType   *string    `json:"membership_type"`
	StartDate        *time.Time `json:"start_date"`
	ExpiryDate       *time.Time `json:"expiry_date"`
	FineDues         *float64   `json:"fine_dues"`
	BorrowingHistory *string    `json:"borrowing_history"`
}

type StaffRequest struct {
	Name                     string  `json:"name"`
	Role                     *string `json:"role"`
	ContactInfo              *string `json:"contact_info"`
	ShiftTimings             *string `json:"shift_timings"`
	AssignedResponsibilities *string `json:"assigned_responsibilities"`
}

type TransactionRequest struct {
	TransactionID string     `json:"transaction_id"`
	MemberID      string     `json:"member_id"`
	BookID        string     `json:"book_id"`
	IssueDate     time.Time  `json:"issue_date"`
	DueDate       time.Time  `json:"due_date"`
	ReturnDate    *time.Time `json:"return_date"`
	FineDetails   *string    `json:"fine_details"`
	RenewalCount  *int       `json:"renewal_count"`
}

type ReservationRequest struct {
	ReservationID   string    `json:"reservation_id"`
	BookID          string    `json:"book_id"`
	MemberID        string    `json:"member_id"`
	ReservationDate time.Time `json:"reservation_date"`
	Status          *string   `json:"status"`
}

type FineRequest struct {
	FineID        string     `json:"fine_id"`
	MemberID      string     `json:"member_id"`
	Amount        float64    `json:"amount"`
	Reason        string     `json:"reason"`
	PaymentStatus *string    `json:"payment_status"`
	PaymentDate   *time.Time `json:"payment_date"`
}
