package rentals

import (
	"fmt"
	"strings"
	"time"

	custom_error "github.com/ubbbj/laptop-rental/pkg/errors"
	"github.com/ubbbj/laptop-rental/pkg/metadata"
	"github.com/ubbbj/laptop-rental/pkg/models"

	"go.uber.org/zap"
)

// Workflow to kontrakt silnika wypożyczeń używany przez warstwę HTTP.
type Workflow interface {
	RequestRental(req models.RentalRequest) (*models.Laptop, error)
	ConfirmRental(laptopID int) (*models.Laptop, error)
	RejectRental(laptopID int) (*models.Laptop, error)
	CompleteRental(laptopID int) (*models.RentalRecord, error)
	ListActive(filter string) ([]models.Laptop, error)
	ListHistory() ([]models.RentalRecord, error)
}

// RentalService pilnuje legalnych przejść cyklu wypożyczenia:
// available -> pending -> confirmed -> available (zwrot zapisuje historię),
// z bocznym wyjściem pending -> available (odrzucenie, bez historii).
type RentalService struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewRentalService(store Store, log *zap.Logger) *RentalService {
	return &RentalService{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

func (s *RentalService) RequestRental(req models.RentalRequest) (*models.Laptop, error) {
	details, err := s.buildDetails(req)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.BeginRental(req.LaptopID, *details)
	if err != nil {
		return nil, s.internal("request rental", err)
	}
	if !ok {
		return nil, s.transitionError(req.LaptopID, metadata.StateAvailable)
	}

	return s.fetchLaptop(req.LaptopID)
}

func (s *RentalService) ConfirmRental(laptopID int) (*models.Laptop, error) {
	ok, err := s.store.ConfirmRental(laptopID)
	if err != nil {
		return nil, s.internal("confirm rental", err)
	}
	if !ok {
		return nil, s.transitionError(laptopID, metadata.StatePending)
	}

	return s.fetchLaptop(laptopID)
}

func (s *RentalService) RejectRental(laptopID int) (*models.Laptop, error) {
	ok, err := s.store.ClearRental(laptopID, metadata.StatePending)
	if err != nil {
		return nil, s.internal("reject rental", err)
	}
	if !ok {
		return nil, s.transitionError(laptopID, metadata.StatePending)
	}

	return s.fetchLaptop(laptopID)
}

func (s *RentalService) CompleteRental(laptopID int) (*models.RentalRecord, error) {
	record, closed, err := s.store.CloseRental(laptopID, s.now().UTC())
	if err != nil {
		return nil, s.internal("complete rental", err)
	}
	if !closed {
		return nil, s.transitionError(laptopID, metadata.StateConfirmed)
	}

	return record, nil
}

func (s *RentalService) ListActive(filter string) ([]models.Laptop, error) {
	var stateFilter *metadata.RentalState

	switch filter {
	case "", "all":
		// bez filtra: wszystkie otwarte cykle
	default:
		state, err := metadata.NewRentalState(filter)
		if err != nil || !state.Open() {
			return nil, &custom_error.ValidationError{
				Field:   "status",
				Message: "dozwolone wartości: all, pending, confirmed",
			}
		}
		stateFilter = &state
	}

	laptops, err := s.store.ListActive(stateFilter)
	if err != nil {
		return nil, s.internal("list active rentals", err)
	}

	return laptops, nil
}

func (s *RentalService) ListHistory() ([]models.RentalRecord, error) {
	records, err := s.store.ListHistory()
	if err != nil {
		return nil, s.internal("list rental history", err)
	}

	return records, nil
}

func (s *RentalService) buildDetails(req models.RentalRequest) (*models.RentalDetails, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)

	if fullName == "" {
		return nil, &custom_error.ValidationError{Field: "full_name", Message: "pole jest wymagane"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, &custom_error.ValidationError{Field: "email", Message: "nieprawidłowy adres e-mail"}
	}
	if phone == "" {
		return nil, &custom_error.ValidationError{Field: "phone", Message: "pole jest wymagane"}
	}

	startDate, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return nil, &custom_error.ValidationError{Field: "start_date", Message: "wymagany format RRRR-MM-DD"}
	}
	endDate, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		return nil, &custom_error.ValidationError{Field: "end_date", Message: "wymagany format RRRR-MM-DD"}
	}
	// Data początkowa może być w przeszłości (wypożyczenie od ręki),
	// ale kolejność dat musi się zgadzać.
	if startDate.After(endDate) {
		return nil, &custom_error.ValidationError{Field: "start_date", Message: "data początkowa po dacie końcowej"}
	}

	return &models.RentalDetails{
		FullName:    fullName,
		Email:       email,
		Phone:       phone,
		StartDate:   startDate,
		EndDate:     endDate,
		RequestedAt: s.now().UTC(),
	}, nil
}

// transitionError tłumaczy nieudany CAS na NotFound albo Conflict z parą
// stan bieżący / stan oczekiwany.
func (s *RentalService) transitionError(laptopID int, expected metadata.RentalState) error {
	laptop, err := s.store.FindLaptop(laptopID)
	if err != nil {
		return s.internal("resolve transition conflict", err)
	}
	if laptop == nil {
		return &custom_error.NotFoundError{Resource: "laptop", ID: laptopID}
	}

	return &custom_error.StateConflictError{
		Current:  laptop.State,
		Expected: expected,
	}
}

func (s *RentalService) fetchLaptop(laptopID int) (*models.Laptop, error) {
	laptop, err := s.store.FindLaptop(laptopID)
	if err != nil {
		return nil, s.internal("fetch laptop", err)
	}
	if laptop == nil {
		return nil, &custom_error.NotFoundError{Resource: "laptop", ID: laptopID}
	}

	return laptop, nil
}

func (s *RentalService) internal(op string, err error) error {
	s.log.Error("rental workflow failure", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}
