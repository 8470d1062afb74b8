package model

import "time"

// Entity реализуют все сохраняемые типы. Через него репозитории
// проставляют created_at и updated_at.
type Entity interface {
	EntityID() int64
	SetCreatedAt(t time.Time)
	SetLastModifiedAt(t time.Time)
}
