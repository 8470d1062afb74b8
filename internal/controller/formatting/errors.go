package formatting

import (
	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
)

// ErrorMessage возвращает пользовательское сообщение для ошибки сервиса.
// Текст ошибки добавляется только для отказов по бизнес-правилам, внутренние детали не показываются.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	switch apperrors.CodeOf(err) {
	case apperrors.CodeValidation:
		return "❌ Неверные данные: " + apperrors.MessageOf(err)
	case apperrors.CodeConflict:
		return "⚠️ Слот пересекается с расписанием"
	case apperrors.CodeNotFound:
		return "❌ Не найдено: " + apperrors.MessageOf(err)
	case apperrors.CodeDuplicateEnrollment:
		return "ℹ️ Студент уже записан на этот курс"
	case apperrors.CodeCapacityExceeded:
		return "🚫 Свободных мест нет"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
