package service

import (
	"iter"
	"slices"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

// SlotLength - шаг и длина свободного слота
const SlotLength = time.Hour

// SlotSeq перечисляет свободные часовые слоты дня day по окнам windows за вычетом booked.
// Слоты идут в хронологическом порядке без повторов, даже если окна пересекаются.
// Последовательность чистая: её можно обходить повторно.
func SlotSeq(day time.Time, windows []*model.AvailabilityWindow, booked []*model.Booking) iter.Seq[model.FreeSlot] {
	return func(yield func(model.FreeSlot) bool) {
		starts := make([]time.Time, len(windows))
		ends := make([]time.Time, len(windows))
		for i, w := range windows {
			starts[i] = w.StartTime.On(day)
			ends[i] = w.EndTime.On(day)
		}

		for {
			// окно с самым ранним следующим слотом, который ещё влезает
			next := -1
			for i := range starts {
				if starts[i].Add(SlotLength).After(ends[i]) {
					continue
				}
				if next < 0 || starts[i].Before(starts[next]) {
					next = i
				}
			}
			if next < 0 {
				return
			}

			slotStart := starts[next]
			slotEnd := slotStart.Add(SlotLength)
			for i := range starts {
				if starts[i].Equal(slotStart) {
					starts[i] = slotEnd
				}
			}

			if isBooked(slotStart, slotEnd, booked) {
				continue
			}
			if !yield(model.FreeSlot{Start: model.ClockOf(slotStart), End: model.ClockOf(slotEnd)}) {
				return
			}
		}
	}
}

func isBooked(start, end time.Time, booked []*model.Booking) bool {
	return slices.ContainsFunc(booked, func(b *model.Booking) bool {
		return b.Overlaps(start, end)
	})
}
