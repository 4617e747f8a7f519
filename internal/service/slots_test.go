package service

import (
	"slices"
	"testing"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
)

func window(start, end model.Clock) *model.AvailabilityWindow {
	return &model.AvailabilityWindow{Weekday: model.Monday, StartTime: start, EndTime: end}
}

func slot(h, m int) model.FreeSlot {
	start := model.NewClock(h, m, 0)
	return model.FreeSlot{Start: start, End: start + model.Clock(SlotLength.Seconds())}
}

func TestSlotSeq(t *testing.T) {
	day := at(3, 0, 0)

	tests := []struct {
		name    string
		windows []*model.AvailabilityWindow
		booked  []*model.Booking
		want    []model.FreeSlot
	}{
		{
			name:    "no windows",
			windows: nil,
			want:    nil,
		},
		{
			name:    "single window",
			windows: []*model.AvailabilityWindow{window(model.NewClock(9, 0, 0), model.NewClock(12, 0, 0))},
			want:    []model.FreeSlot{slot(9, 0), slot(10, 0), slot(11, 0)},
		},
		{
			name:    "trailing remainder is dropped",
			windows: []*model.AvailabilityWindow{window(model.NewClock(9, 30, 0), model.NewClock(11, 0, 0))},
			want:    []model.FreeSlot{slot(9, 30)},
		},
		{
			name: "overlapping windows are merged without duplicates",
			windows: []*model.AvailabilityWindow{
				window(model.NewClock(10, 0, 0), model.NewClock(12, 0, 0)),
				window(model.NewClock(9, 0, 0), model.NewClock(11, 0, 0)),
			},
			want: []model.FreeSlot{slot(9, 0), slot(10, 0), slot(11, 0)},
		},
		{
			name: "disjoint windows in chronological order",
			windows: []*model.AvailabilityWindow{
				window(model.NewClock(14, 0, 0), model.NewClock(15, 0, 0)),
				window(model.NewClock(8, 0, 0), model.NewClock(9, 0, 0)),
			},
			want: []model.FreeSlot{slot(8, 0), slot(14, 0)},
		},
		{
			name:    "booked slot and partial overlap are excluded",
			windows: []*model.AvailabilityWindow{window(model.NewClock(9, 0, 0), model.NewClock(13, 0, 0))},
			booked: []*model.Booking{
				{StartTime: at(3, 9, 0), EndTime: at(3, 10, 0)},
				{StartTime: at(3, 11, 30), EndTime: at(3, 12, 15)},
			},
			want: []model.FreeSlot{slot(10, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(SlotSeq(day, tt.windows, tt.booked))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotSeq_Restartable(t *testing.T) {
	seq := SlotSeq(at(3, 0, 0), []*model.AvailabilityWindow{window(model.NewClock(9, 0, 0), model.NewClock(12, 0, 0))}, nil)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	var taken []model.FreeSlot
	for s := range seq {
		taken = append(taken, s)
		if len(taken) == 2 {
			break
		}
	}
	assert.Equal(t, first[:2], taken)
}
