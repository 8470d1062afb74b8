package model

import "time"

type Subject struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Credits     int       `json:"credits"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Subject) EntityID() int64               { return s.ID }
func (s *Subject) SetCreatedAt(t time.Time)      { s.CreatedAt = t }
func (s *Subject) SetLastModifiedAt(t time.Time) { s.UpdatedAt = t }

// AcademicPeriod учебный период (семестр, триместр)
type AcademicPeriod struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartsOn  time.Time `json:"starts_on"`
	EndsOn    time.Time `json:"ends_on"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *AcademicPeriod) EntityID() int64               { return p.ID }
func (p *AcademicPeriod) SetCreatedAt(t time.Time)      { p.CreatedAt = t }
func (p *AcademicPeriod) SetLastModifiedAt(t time.Time) { p.UpdatedAt = t }
