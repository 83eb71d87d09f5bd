package model

import "time"

const (
	BookStatusAvailable = "Available"
	BookStatusBorrowed  = "Borrowed"
	BookStatusReserved  = "Reserved"
	BookStatusLost      = "Lost"
)

type Book struct {
	ID              string     `json:"id"`
	AccessionNumber *string    `json:"accession_number,omitempty"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Publisher       *string    `json:"publisher,omitempty"`
	Edition         *string    `json:"edition,omitempty"`
	ISBN            *string    `json:"isbn,omitempty"`
	Genre           *string    `json:"genre,omitempty"`
	Language        *string    `json:"language,omitempty"`
	Pages           *int       `json:"pages,omitempty"`
	Price           *float64   `json:"price,omitempty"`
	DateOfPurchase  *time.Time `json:"date_of_purchase,omitempty"`
	PublishedDate   *time.Time `json:"published_date,omitempty"`
	CurrentStatus   string     `json:"current_status"`
	ShelfNumber     *string    `json:"shelf_number,omitempty"`
	AddedBy         *string    `json:"added_by,omitempty"`
	AddedAt         time.Time  `json:"added_at"`
}

// BookFilter narrows book listings. Title and Author are substring matches;
// Status accepts the lowercase API form and is mapped to the stored value.
type BookFilter struct {
	Title  string
	Author string
	Status string
	Skip   int
	Limit  int
}

// StoredBookStatus maps the lowercase API status names onto the Title-case
// values the books table actually stores.
func StoredBookStatus(status string) string {
	switch status {
	case "available":
		return BookStatusAvailable
	case "borrowed":
		return BookStatusBorrowed
	case "reserved":
		return BookStatusReserved
	case "lost":
		return BookStatusLost
	}

	return status
}
