package reserve_appointment

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// computeAvailableSlots вычисляет доступные слоты по всем рабочим окнам
// Тот же обход, что и в usecase get_available_slots: курсор идет по окну
// с шагом в длительность услуги, существующие записи перешагиваются,
// частичные остатки не используются, слоты выдаются от имени первого
// сотрудника окна, оказывающего услугу
func computeAvailableSlots(
	windows []*domain.WorkingWindow,
	date time.Time,
	duration time.Duration,
	appointments []*domain.Appointment,
	qualified map[int64]struct{},
) ([]domain.Slot, error) {
	slots := make([]domain.Slot, 0)

	for _, window := range windows {
		employeeID, ok := window.FirstQualifiedEmployee(qualified)
		if !ok {
			continue
		}

		windowStart, err := window.StartTime.At(date)
		if err != nil {
			return nil, err
		}
		windowEnd, err := window.EndTime.At(date)
		if err != nil {
			return nil, err
		}

		if windowStart.Add(duration).After(windowEnd) {
			continue
		}

		booked := employeeAppointments(appointments, employeeID)
		cursor := windowStart

		for _, appt := range booked {
			for !cursor.Add(duration).After(appt.StartAt) && !cursor.Add(duration).After(windowEnd) {
				slots = append(slots, domain.Slot{
					StartAt:    cursor,
					EndAt:      cursor.Add(duration),
					EmployeeID: employeeID,
				})
				cursor = cursor.Add(duration)
			}
			if appt.EndAt.After(cursor) {
				cursor = appt.EndAt
			}
		}

		for !cursor.Add(duration).After(windowEnd) {
			slots = append(slots, domain.Slot{
				StartAt:    cursor,
				EndAt:      cursor.Add(duration),
				EmployeeID: employeeID,
			})
			cursor = cursor.Add(duration)
		}
	}

	return slots, nil
}

// employeeAppointments возвращает записи сотрудника, отсортированные по началу
func employeeAppointments(appointments []*domain.Appointment, employeeID int64) []*domain.Appointment {
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

// findMatchingSlot ищет слот, начало которого точно совпадает с запрошенным временем
// Попадание внутрь слота без совпадения начала бронированием не считается
func findMatchingSlot(slots []domain.Slot, startAt time.Time) (domain.Slot, bool) {
	for _, slot := range slots {
		if slot.Matches(startAt) {
			return slot, true
		}
	}
	return domain.Slot{}, false
}

// hasOverlap проверяет пересечение интервала [start, end) с активными записями
// Интервалы полуоткрытые: соприкасающиеся границы пересечением не считаются
func hasOverlap(appointments []*domain.Appointment, start, end time.Time) bool {
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		if appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}
