package models

import "time"

// RentalDetails to dane wniosku o wypożyczenie, trzymane na laptopie przez
// cały otwarty cykl (pending i confirmed).
type RentalDetails struct {
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	RequestedAt time.Time `json:"requested_at"`
}

// RentalRecord to wpis historii zakończonego wypożyczenia. Rekord jest
// migawką danych laptopa z chwili zwrotu i nigdy nie jest modyfikowany.
type RentalRecord struct {
	ID         int       `json:"id" db:"id"`
	LaptopID   int       `json:"laptop_id" db:"laptop_id"`
	Brand      string    `json:"brand" db:"brand"`
	Model      string    `json:"model" db:"model"`
	Serial     string    `json:"serial_number" db:"serial_number"`
	RentedBy   string    `json:"rented_by" db:"rented_by"`
	RentedAt   time.Time `json:"rented_at" db:"rented_at"`
	ReturnedAt time.Time `json:"returned_at" db:"returned_at"`
}

func (r *RentalRecord) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   r.LaptopID,
		ResourceType: "laptop",
	}
}

type RentalRequest struct {
	LaptopID  int    `json:"laptop_id" binding:"required"`
	FullName  string `json:"full_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}
