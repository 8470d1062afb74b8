package formatting

func pluralize(count int, one, few, many string) string {
	if count < 0 {
		count = -count
	}
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeStudents возвращает правильное склонение слова "студент"
func PluralizeStudents(count int) string {
	return pluralize(count, "студент", "студента", "студентов")
}

// PluralizeSeats возвращает правильное склонение слова "место"
func PluralizeSeats(count int) string {
	return pluralize(count, "место", "места", "мест")
}

// PluralizeConflicts возвращает правильное склонение слова "пересечение"
func PluralizeConflicts(count int) string {
	return pluralize(count, "пересечение", "пересечения", "пересечений")
}
