package laptops

import (
	"fmt"
	"os"

	"github.com/ubbbj/laptop-rental/internal/repository"
	"github.com/ubbbj/laptop-rental/pkg/auditlog"
	custom_error "github.com/ubbbj/laptop-rental/pkg/errors"
	"github.com/ubbbj/laptop-rental/pkg/metadata"
	"github.com/ubbbj/laptop-rental/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type LaptopService struct {
	laptopRepo LaptopRepository
	repo       *repository.Repository
	auditLog   *auditlog.Auditlog
	qrBaseURL  string
}

func NewLaptopService(laptopRepo LaptopRepository, repo *repository.Repository, auditLog *auditlog.Auditlog) *LaptopService {
	return &LaptopService{
		laptopRepo: laptopRepo,
		repo:       repo,
		auditLog:   auditLog,
		qrBaseURL:  os.Getenv("QR_BASE_URL"),
	}
}

func (s *LaptopService) CreateLaptop(req models.LaptopRequest) (*models.Laptop, error) {
	label := metadata.NewQRLabel(s.qrBaseURL, req.Serial)

	laptop, err := s.laptopRepo.PersistLaptop(req, label.Payload())
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"create",
		map[string]interface{}{
			"serial": laptop.Serial,
			"msg":    "Dodano laptopa do ewidencji",
		},
		laptop,
	)

	return laptop, nil
}

// CreateBulkLaptops rejestruje partię laptopów w jednej transakcji; błędy
// pojedynczych numerów seryjnych nie przerywają reszty partii.
func (s *LaptopService) CreateBulkLaptops(req models.BulkLaptopRequest) ([]models.Laptop, []string, error) {
	var createdLaptops []models.Laptop
	var errors []string

	err := repository.WithTransaction(s.repo.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		for _, serial := range req.Serials {
			laptopReq := models.LaptopRequest{
				Brand:       req.Brand,
				Model:       req.Model,
				Serial:      serial,
				Description: req.Description,
				Specs:       req.Specs,
			}

			laptop, err := s.CreateLaptop(laptopReq)
			if err != nil {
				switch err.(type) {
				case *custom_error.UniqueViolationError:
					errors = append(errors, fmt.Sprintf("Numer seryjny %s jest już zarejestrowany", serial))
				default:
					errors = append(errors, fmt.Sprintf("Nie udało się utworzyć laptopa %s: %v", serial, err))
				}
				continue
			}

			createdLaptops = append(createdLaptops, *laptop)
		}
		return nil
	})

	return createdLaptops, errors, err
}
