package model

// ConflictDimension ресурс, который два слота занимают одновременно
type ConflictDimension string

const (
	ConflictTeacher ConflictDimension = "teacher"
	ConflictRoom    ConflictDimension = "room"
	ConflictGroup   ConflictDimension = "group"
)

// Conflict существующий слот и ресурс, по которому он пересекается
type Conflict struct {
	Slot      *ScheduleSlot     `json:"slot"`
	Dimension ConflictDimension `json:"dimension"`
}

// ResourceContext что занимает проверяемый слот помимо аудитории
type ResourceContext struct {
	TeacherID int64
	GroupID   int64
}
