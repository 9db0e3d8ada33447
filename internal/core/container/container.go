package container

import (
	"database/sql"

	auditLogRepo "github.com/ubbbj/laptop-rental/internal/auditlog"
	"github.com/ubbbj/laptop-rental/internal/laptops"
	"github.com/ubbbj/laptop-rental/internal/rentals"
	"github.com/ubbbj/laptop-rental/internal/repository"
	"github.com/ubbbj/laptop-rental/internal/users"
	"github.com/ubbbj/laptop-rental/pkg/auditlog"
	"github.com/ubbbj/laptop-rental/pkg/security"

	"go.uber.org/zap"
)

type Container struct {
	Repository    *repository.Repository
	AuditLog      *auditlog.Auditlog
	LoginHandler  *security.LoginHandler
	LaptopHandler *laptops.LaptopHandler
	RentalHandler *rentals.RentalHandler
	UserHandler   *users.UsersHandler
}

func NewAppContainer(db *sql.DB, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	logRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(logRepo)

	laptopRepo := laptops.NewRepository(repo)
	laptopService := laptops.NewLaptopService(laptopRepo, repo, auditLog)
	laptopHandler := laptops.NewLaptopHandler(laptopRepo, laptopService, logRepo, auditLog)

	rentalStore := rentals.NewStore(repo)
	rentalService := rentals.NewRentalService(rentalStore, log)
	rentalHandler := rentals.NewHandler(rentalService, auditLog)

	userRepo := users.NewRepository(repo)
	userHandler := users.NewHandler(userRepo)

	loginHandler := security.NewLoginHandler(repo)

	return &Container{
		Repository:    repo,
		AuditLog:      auditLog,
		LoginHandler:  loginHandler,
		LaptopHandler: laptopHandler,
		RentalHandler: rentalHandler,
		UserHandler:   userHandler,
	}
}
