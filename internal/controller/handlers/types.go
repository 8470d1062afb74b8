package handlers

import (
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService       *service.UserService
	enrollmentService *service.EnrollmentService
	bulkService       *service.BulkEnrollmentService
	scheduleService   *service.ScheduleService
	offeringService   *service.OfferingService
	bulkTimeout       time.Duration
	logger            *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	enrollmentService *service.EnrollmentService,
	bulkService *service.BulkEnrollmentService,
	scheduleService *service.ScheduleService,
	offeringService *service.OfferingService,
	bulkTimeout time.Duration,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:       userService,
		enrollmentService: enrollmentService,
		bulkService:       bulkService,
		scheduleService:   scheduleService,
		offeringService:   offeringService,
		bulkTimeout:       bulkTimeout,
		logger:            logger,
	}
}
