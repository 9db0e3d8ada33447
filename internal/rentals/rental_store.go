package rentals

import (
	"errors"
	"fmt"
	"time"

	"github.com/ubbbj/laptop-rental/internal/repository"
	"github.com/ubbbj/laptop-rental/pkg/metadata"
	"github.com/ubbbj/laptop-rental/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// Store to adapter persystencji silnika wypożyczeń. Każde przejście stanu jest
// warunkowym UPDATE zakotwiczonym na bieżącym rental_state (compare-and-swap),
// nigdy parą odczyt-zapis, więc z wyścigu dwóch wniosków wychodzi zwycięsko
// dokładnie jeden.
type Store interface {
	// FindLaptop zwraca nil, gdy laptop nie istnieje.
	FindLaptop(id int) (*models.Laptop, error)
	// BeginRental przestawia available -> pending i zapisuje dane wniosku.
	BeginRental(id int, details models.RentalDetails) (bool, error)
	// ConfirmRental przestawia pending -> confirmed; dane wniosku bez zmian.
	ConfirmRental(id int) (bool, error)
	// ClearRental przestawia expected -> available i czyści dane wniosku.
	ClearRental(id int, expected metadata.RentalState) (bool, error)
	// CloseRental w jednej transakcji dopisuje wpis historii i zeruje stan.
	// Zwraca false bez błędu, gdy laptop nie jest w stanie confirmed.
	CloseRental(id int, returnedAt time.Time) (*models.RentalRecord, bool, error)
	ListActive(filter *metadata.RentalState) ([]models.Laptop, error)
	ListHistory() ([]models.RentalRecord, error)
}

type rentalStore struct {
	repository *repository.Repository
}

func NewStore(r *repository.Repository) Store {
	return &rentalStore{repository: r}
}

var errCloseRaced = errors.New("rental state changed while closing the cycle")

func (s *rentalStore) FindLaptop(id int) (*models.Laptop, error) {
	var flat models.FlatLaptopRecord

	query := s.getLaptopQuery().Where(goqu.Ex{"id": id})
	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("unable to select laptop from database: %w", err)
	}
	if !found {
		return nil, nil
	}

	laptop, err := flat.TransformToLaptop()
	if err != nil {
		return nil, err
	}

	return &laptop, nil
}

func (s *rentalStore) BeginRental(id int, details models.RentalDetails) (bool, error) {
	record := goqu.Record{
		"rental_state":        string(metadata.StatePending),
		"rental_full_name":    details.FullName,
		"rental_email":        details.Email,
		"rental_phone":        details.Phone,
		"rental_start_date":   details.StartDate,
		"rental_end_date":     details.EndDate,
		"rental_requested_at": details.RequestedAt,
	}

	return s.casUpdate(id, metadata.StateAvailable, record)
}

func (s *rentalStore) ConfirmRental(id int) (bool, error) {
	return s.casUpdate(id, metadata.StatePending, goqu.Record{
		"rental_state": string(metadata.StateConfirmed),
	})
}

func (s *rentalStore) ClearRental(id int, expected metadata.RentalState) (bool, error) {
	return s.casUpdate(id, expected, clearedRentalRecord())
}

func (s *rentalStore) CloseRental(id int, returnedAt time.Time) (*models.RentalRecord, bool, error) {
	var record *models.RentalRecord

	err := repository.WithTransaction(s.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var flat models.FlatLaptopRecord

		query := tx.From("laptops").
			Select(laptopColumns()...).
			Where(goqu.Ex{"id": id, "rental_state": string(metadata.StateConfirmed)})

		found, err := query.Executor().ScanStruct(&flat)
		if err != nil {
			return fmt.Errorf("unable to select laptop for return: %w", err)
		}
		if !found {
			return errCloseRaced
		}

		laptop, err := flat.TransformToLaptop()
		if err != nil {
			return err
		}

		rec := models.RentalRecord{
			LaptopID:   laptop.ID,
			Brand:      laptop.Brand,
			Model:      laptop.Model,
			Serial:     laptop.Serial,
			RentedBy:   laptop.Rental.Email,
			RentedAt:   laptop.Rental.RequestedAt,
			ReturnedAt: returnedAt,
		}

		insert := tx.Insert("rental_history").
			Rows(goqu.Record{
				"laptop_id":     rec.LaptopID,
				"brand":         rec.Brand,
				"model":         rec.Model,
				"serial_number": rec.Serial,
				"rented_by":     rec.RentedBy,
				"rented_at":     rec.RentedAt,
				"returned_at":   rec.ReturnedAt,
			}).
			Returning("id")

		if _, err := insert.Executor().ScanVal(&rec.ID); err != nil {
			return fmt.Errorf("failed to insert rental history record: %w", err)
		}

		result, err := tx.Update("laptops").
			Set(clearedRentalRecord()).
			Where(goqu.Ex{"id": id, "rental_state": string(metadata.StateConfirmed)}).
			Executor().
			Exec()
		if err != nil {
			return fmt.Errorf("failed to reset laptop rental state: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		// Predykat nie trzyma w chwili zapisu: wycofujemy też wpis historii.
		if rowsAffected != 1 {
			return errCloseRaced
		}

		record = &rec
		return nil
	})

	if errors.Is(err, errCloseRaced) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return record, true, nil
}

func (s *rentalStore) ListActive(filter *metadata.RentalState) ([]models.Laptop, error) {
	query := s.getLaptopQuery().
		Where(goqu.C("rental_state").Neq(string(metadata.StateAvailable))).
		Order(goqu.I("rental_requested_at").Asc())

	if filter != nil {
		query = query.Where(goqu.Ex{"rental_state": filter.String()})
	}

	var flatLaptops []models.FlatLaptopRecord
	if err := query.Executor().ScanStructs(&flatLaptops); err != nil {
		return nil, fmt.Errorf("unable to select active rentals: %w", err)
	}

	laptops := make([]models.Laptop, 0, len(flatLaptops))
	for _, flat := range flatLaptops {
		laptop, err := flat.TransformToLaptop()
		if err != nil {
			return nil, err
		}
		laptops = append(laptops, laptop)
	}

	return laptops, nil
}

func (s *rentalStore) ListHistory() ([]models.RentalRecord, error) {
	query := s.repository.GoquDBWrapper.
		From("rental_history").
		Select("id", "laptop_id", "brand", "model", "serial_number", "rented_by", "rented_at", "returned_at").
		Order(goqu.I("returned_at").Desc())

	var records []models.RentalRecord
	if err := query.Executor().ScanStructs(&records); err != nil {
		return nil, fmt.Errorf("unable to select rental history: %w", err)
	}

	return records, nil
}

func (s *rentalStore) casUpdate(id int, expected metadata.RentalState, record goqu.Record) (bool, error) {
	result, err := s.repository.GoquDBWrapper.
		Update("laptops").
		Set(record).
		Where(goqu.Ex{"id": id, "rental_state": string(expected)}).
		Executor().
		Exec()
	if err != nil {
		return false, fmt.Errorf("failed to update rental state: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (s *rentalStore) getLaptopQuery() *goqu.SelectDataset {
	return s.repository.GoquDBWrapper.
		From("laptops").
		Select(laptopColumns()...)
}

func laptopColumns() []interface{} {
	return []interface{}{
		goqu.I("id").As("laptop_id"),
		"brand",
		"model",
		"serial_number",
		"description",
		"cpu",
		"ram",
		"disk",
		"images",
		"qr_payload",
		"rental_state",
		"rental_full_name",
		"rental_email",
		"rental_phone",
		"rental_start_date",
		"rental_end_date",
		"rental_requested_at",
	}
}

func clearedRentalRecord() goqu.Record {
	return goqu.Record{
		"rental_state":        string(metadata.StateAvailable),
		"rental_full_name":    nil,
		"rental_email":        nil,
		"rental_phone":        nil,
		"rental_start_date":   nil,
		"rental_end_date":     nil,
		"rental_requested_at": nil,
	}
}
