package models

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ubbbj/laptop-rental/pkg/metadata"
)

type Laptop struct {
	ID          int                  `json:"id" db:"laptop_id"`
	Brand       string               `json:"brand"`
	Model       string               `json:"model"`
	Serial      string               `json:"serial_number"`
	Description string               `json:"description,omitempty"`
	Specs       LaptopSpecs          `json:"specs"`
	Images      []string             `json:"images"`
	QRPayload   string               `json:"qr_payload"`
	State       metadata.RentalState `json:"rental_state"`
	// Rental jest wypełnione tylko, gdy State to pending lub confirmed.
	Rental *RentalDetails `json:"rental_details,omitempty"`
}

type LaptopSpecs struct {
	CPU  string `json:"cpu,omitempty"`
	RAM  string `json:"ram,omitempty"`
	Disk string `json:"disk,omitempty"`
}

type FlatLaptopRecord struct {
	ID                int            `db:"laptop_id"`
	Brand             string         `db:"brand"`
	Model             string         `db:"model"`
	Serial            string         `db:"serial_number"`
	Description       sql.NullString `db:"description"`
	CPU               sql.NullString `db:"cpu"`
	RAM               sql.NullString `db:"ram"`
	Disk              sql.NullString `db:"disk"`
	Images            []byte         `db:"images"`
	QRPayload         sql.NullString `db:"qr_payload"`
	State             string         `db:"rental_state"`
	RentalFullName    sql.NullString `db:"rental_full_name"`
	RentalEmail       sql.NullString `db:"rental_email"`
	RentalPhone       sql.NullString `db:"rental_phone"`
	RentalStartDate   sql.NullTime   `db:"rental_start_date"`
	RentalEndDate     sql.NullTime   `db:"rental_end_date"`
	RentalRequestedAt sql.NullTime   `db:"rental_requested_at"`
}

func (fl *FlatLaptopRecord) TransformToLaptop() (Laptop, error) {
	state, err := metadata.NewRentalState(fl.State)
	if err != nil {
		return Laptop{}, fmt.Errorf("laptop %d: %w", fl.ID, err)
	}

	var images []string
	if len(fl.Images) > 0 {
		if err := json.Unmarshal(fl.Images, &images); err != nil {
			return Laptop{}, fmt.Errorf("failed to unmarshal images: %w", err)
		}
	}

	laptop := Laptop{
		ID:          fl.ID,
		Brand:       fl.Brand,
		Model:       fl.Model,
		Serial:      fl.Serial,
		Description: fl.Description.String,
		Specs: LaptopSpecs{
			CPU:  fl.CPU.String,
			RAM:  fl.RAM.String,
			Disk: fl.Disk.String,
		},
		Images:    images,
		QRPayload: fl.QRPayload.String,
		State:     state,
	}

	if state.Open() {
		// Wiersz z otwartym cyklem musi mieć komplet danych wnioskodawcy.
		if !fl.RentalEmail.Valid || !fl.RentalRequestedAt.Valid {
			return Laptop{}, fmt.Errorf("laptop %d in state %s has no rental details", fl.ID, state)
		}
		laptop.Rental = &RentalDetails{
			FullName:    fl.RentalFullName.String,
			Email:       fl.RentalEmail.String,
			Phone:       fl.RentalPhone.String,
			StartDate:   fl.RentalStartDate.Time,
			EndDate:     fl.RentalEndDate.Time,
			RequestedAt: fl.RentalRequestedAt.Time,
		}
	}

	return laptop, nil
}

func (l *Laptop) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   l.ID,
		ResourceType: "laptop",
	}
}
