package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// calculateWindowSlots вычисляет доступные слоты одного рабочего окна
// Окно обходится курсором с фиксированным шагом в длительность услуги:
// перед каждой существующей записью эмитятся слоты, пока слот целиком
// помещается до её начала, затем курсор передвигается на конец записи.
// Остаток короче длительности услуги (в конце окна или перед записью)
// не используется - частичные слоты не выдаются.
//
// Слоты выдаются от имени первого сотрудника окна, оказывающего услугу
// (см. FirstQualifiedEmployee); окно без подходящих сотрудников слотов не дает
func calculateWindowSlots(
	window *domain.WorkingWindow,
	date time.Time,
	duration time.Duration,
	appointments []*domain.Appointment,
	qualified map[int64]struct{},
) ([]domain.Slot, error) {
	employeeID, ok := window.FirstQualifiedEmployee(qualified)
	if !ok {
		return nil, nil
	}

	windowStart, err := window.StartTime.At(date)
	if err != nil {
		return nil, err
	}
	windowEnd, err := window.EndTime.At(date)
	if err != nil {
		return nil, err
	}

	// Окно короче одной длительности услуги не дает ни одного слота
	if windowStart.Add(duration).After(windowEnd) {
		return nil, nil
	}

	// Отбираем записи сотрудника окна, отсортированные по началу
	booked := filterByEmployee(appointments, employeeID)

	slots := make([]domain.Slot, 0)
	cursor := windowStart

	for _, appt := range booked {
		// Эмитим слоты, пока слот целиком помещается до начала записи
		for !cursor.Add(duration).After(appt.StartAt) && !cursor.Add(duration).After(windowEnd) {
			slots = append(slots, domain.Slot{
				StartAt:    cursor,
				EndAt:      cursor.Add(duration),
				EmployeeID: employeeID,
			})
			cursor = cursor.Add(duration)
		}

		// Передвигаем курсор на конец записи (только вперед)
		if appt.EndAt.After(cursor) {
			cursor = appt.EndAt
		}
	}

	// Остаток окна после последней записи
	for !cursor.Add(duration).After(windowEnd) {
		slots = append(slots, domain.Slot{
			StartAt:    cursor,
			EndAt:      cursor.Add(duration),
			EmployeeID: employeeID,
		})
		cursor = cursor.Add(duration)
	}

	return slots, nil
}

// filterByEmployee возвращает записи указанного сотрудника, отсортированные по началу
func filterByEmployee(appointments []*domain.Appointment, employeeID int64) []*domain.Appointment {
	filtered := make([]*domain.Appointment, 0)
	for _, appt := range appointments {
		if appt.EmployeeID == employeeID {
			filtered = append(filtered, appt)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].StartAt.Before(filtered[j].StartAt)
	})

	return filtered
}
