package laptops

import (
	"encoding/json"
	"fmt"

	"github.com/ubbbj/laptop-rental/internal/repository"
	custom_error "github.com/ubbbj/laptop-rental/pkg/errors"
	"github.com/ubbbj/laptop-rental/pkg/metadata"
	"github.com/ubbbj/laptop-rental/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type LaptopRepository interface {
	PersistLaptop(req models.LaptopRequest, qrPayload string) (*models.Laptop, error)
	GetLaptop(id int) (*models.Laptop, error)
	FindLaptopBySerial(serial string) (*models.Laptop, error)
	GetLaptopList() ([]models.Laptop, error)
	UpdateLaptop(id int, changes *models.LaptopChanges) error
	// RemoveLaptop bez force odmawia usunięcia laptopa z otwartym cyklem
	// wypożyczenia; warunek siedzi w klauzuli WHERE, nie w osobnym odczycie.
	RemoveLaptop(id int, force bool) (bool, error)
}

type laptopRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) LaptopRepository {
	return &laptopRepositoryImpl{repository: r}
}

func (r *laptopRepositoryImpl) PersistLaptop(req models.LaptopRequest, qrPayload string) (*models.Laptop, error) {
	images, err := marshalImages(req.Images)
	if err != nil {
		return nil, err
	}

	record := goqu.Record{
		"brand":         req.Brand,
		"model":         req.Model,
		"serial_number": req.Serial,
		"description":   req.Description,
		"cpu":           req.Specs.CPU,
		"ram":           req.Specs.RAM,
		"disk":          req.Specs.Disk,
		"images":        images,
		"qr_payload":    qrPayload,
	}

	var laptopID int
	query := r.repository.GoquDBWrapper.Insert("laptops").
		Rows(record).
		Returning("id")

	if _, err := query.Executor().ScanVal(&laptopID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Numer seryjny laptopa jest już zarejestrowany", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert laptop record: %w", err)
	}

	return r.GetLaptop(laptopID)
}

func (r *laptopRepositoryImpl) GetLaptop(id int) (*models.Laptop, error) {
	return r.fetchLaptopByCondition(goqu.Ex{"id": id})
}

func (r *laptopRepositoryImpl) FindLaptopBySerial(serial string) (*models.Laptop, error) {
	return r.fetchLaptopByCondition(goqu.Ex{"serial_number": serial})
}

func (r *laptopRepositoryImpl) GetLaptopList() ([]models.Laptop, error) {
	query := r.getLaptopQuery().Order(goqu.I("id").Asc())

	var flatLaptops []models.FlatLaptopRecord
	if err := query.Executor().ScanStructs(&flatLaptops); err != nil {
		return nil, fmt.Errorf("unable to select laptops from database: %w", err)
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

func (r *laptopRepositoryImpl) UpdateLaptop(id int, changes *models.LaptopChanges) error {
	record := goqu.Record{}

	if changes.Brand != nil {
		record["brand"] = *changes.Brand
	}
	if changes.Model != nil {
		record["model"] = *changes.Model
	}
	if changes.Serial != nil {
		record["serial_number"] = *changes.Serial
	}
	if changes.Description != nil {
		record["description"] = *changes.Description
	}
	if changes.Specs != nil {
		record["cpu"] = changes.Specs.CPU
		record["ram"] = changes.Specs.RAM
		record["disk"] = changes.Specs.Disk
	}
	if changes.Images != nil {
		images, err := marshalImages(*changes.Images)
		if err != nil {
			return err
		}
		record["images"] = images
	}

	result, err := r.repository.GoquDBWrapper.
		Update("laptops").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Numer seryjny laptopa jest już zarejestrowany", string(pqErr.Code))
		}
		return fmt.Errorf("failed to update laptop: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "laptop", ID: id}
	}

	return nil
}

func (r *laptopRepositoryImpl) RemoveLaptop(id int, force bool) (bool, error) {
	condition := goqu.Ex{"id": id}
	if !force {
		condition["rental_state"] = string(metadata.StateAvailable)
	}

	result, err := r.repository.GoquDBWrapper.
		Delete("laptops").
		Where(condition).
		Executor().
		Exec()
	if err != nil {
		return false, fmt.Errorf("failed to delete laptop: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *laptopRepositoryImpl) fetchLaptopByCondition(condition goqu.Expression) (*models.Laptop, error) {
	var flat models.FlatLaptopRecord

	query := r.getLaptopQuery().Where(condition)
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

func (r *laptopRepositoryImpl) getLaptopQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From("laptops").
		Select(
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
		)
}

func marshalImages(images []string) ([]byte, error) {
	if images == nil {
		images = []string{}
	}

	data, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal images: %w", err)
	}

	return data, nil
}
