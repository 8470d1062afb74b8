package model

import (
	"time"

	"github.com/google/uuid"
)

// BulkItemError студент, которого не удалось записать
type BulkItemError struct {
	StudentID int64  `json:"student_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// BulkResult итог массовой записи. Частичный успех считается нормальным исходом.
type BulkResult struct {
	OperationID      uuid.UUID       `json:"operation_id"`
	CourseOfferingID int64           `json:"course_offering_id"`
	SuccessCount     int             `json:"success_count"`
	FailureCount     int             `json:"failure_count"`
	SuccessfulIDs    []int64         `json:"successful_ids"`
	Errors           []BulkItemError `json:"errors"`
	NotAttempted     []int64         `json:"not_attempted,omitempty"` // не обработаны из-за отмены
	Cancelled        bool            `json:"cancelled"`
	Elapsed          time.Duration   `json:"elapsed"`
}
