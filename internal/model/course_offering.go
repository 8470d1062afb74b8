package model

import "time"

// CourseOffering предмет, который один преподаватель ведёт у одной группы в одном учебном периоде
type CourseOffering struct {
	ID               int64      `json:"id"`
	SubjectID        int64      `json:"subject_id"`
	GroupID          int64      `json:"group_id"`
	AcademicPeriodID int64      `json:"academic_period_id"`
	TeacherID        int64      `json:"teacher_id"`
	MaxSeats         int        `json:"max_seats"`
	IsActive         bool       `json:"is_active"`
	TitleOverride    *string    `json:"title_override,omitempty"`
	StartsOnOverride *time.Time `json:"starts_on_override,omitempty"`
	EndsOnOverride   *time.Time `json:"ends_on_override,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (o *CourseOffering) EntityID() int64               { return o.ID }
func (o *CourseOffering) SetCreatedAt(t time.Time)      { o.CreatedAt = t }
func (o *CourseOffering) SetLastModifiedAt(t time.Time) { o.UpdatedAt = t }

// HasAvailableSeats проверяет есть ли места при данном числе активных записей
func (o *CourseOffering) HasAvailableSeats(enrolled int) bool {
	return enrolled < o.MaxSeats
}

// OfferingView курс для отображения. Поля предмета и периода подставляются,
// если курс их не переопределяет.
type OfferingView struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Credits           int       `json:"credits"`
	PeriodName        string    `json:"period_name"`
	StartsOn          time.Time `json:"starts_on"`
	EndsOn            time.Time `json:"ends_on"`
	TeacherID         int64     `json:"teacher_id"`
	GroupID           int64     `json:"group_id"`
	MaxSeats          int       `json:"max_seats"`
	EnrolledCount     int       `json:"enrolled_count"`
	HasAvailableSeats bool      `json:"has_available_seats"`
	IsActive          bool      `json:"is_active"`
}

// ProjectOffering собирает OfferingView из курса, предмета и периода.
// Если предмета или периода нет, соответствующие поля остаются пустыми.
func ProjectOffering(o *CourseOffering, subject *Subject, period *AcademicPeriod, enrolled int) OfferingView {
	view := OfferingView{
		ID:                o.ID,
		TeacherID:         o.TeacherID,
		GroupID:           o.GroupID,
		MaxSeats:          o.MaxSeats,
		EnrolledCount:     enrolled,
		HasAvailableSeats: o.HasAvailableSeats(enrolled),
		IsActive:          o.IsActive,
	}

	if subject != nil {
		view.Title = subject.Name
		view.Description = subject.Description
		view.Credits = subject.Credits
	}
	if period != nil {
		view.PeriodName = period.Name
		view.StartsOn = period.StartsOn
		view.EndsOn = period.EndsOn
	}

	if o.TitleOverride != nil && *o.TitleOverride != "" {
		view.Title = *o.TitleOverride
	}
	if o.StartsOnOverride != nil {
		view.StartsOn = *o.StartsOnOverride
	}
	if o.EndsOnOverride != nil {
		view.EndsOn = *o.EndsOnOverride
	}

	return view
}
