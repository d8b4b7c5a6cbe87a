package booking

import (
	"context"
	"time"

	"github.com/studentato/dorm-booking/internal/clock"
	domain "github.com/studentato/dorm-booking/internal/domain/booking"
	"github.com/studentato/dorm-booking/internal/dto"
	"github.com/studentato/dorm-booking/internal/viewcache"
)

// GetWeekSchedule builds the occupancy grid the booking page renders: one
// cell per catalog slot for every day of the requested date's ISO week.
type GetWeekSchedule struct {
	ledger domain.Ledger
	cache  *viewcache.Cache
	clock  clock.Clock
}

func NewGetWeekSchedule(
	ledger domain.Ledger,
	cache *viewcache.Cache,
	clk clock.Clock,
) *GetWeekSchedule {
	return &GetWeekSchedule{
		ledger: ledger,
		cache:  cache,
		clock:  clk,
	}
}

func (uc *GetWeekSchedule) Execute(
	ctx context.Context,
	resourceType domain.ResourceType,
	date time.Time,
) (*dto.WeekScheduleDTO, error) {

	loc := uc.clock.Location()
	now := uc.clock.Now()

	weekStart, weekEnd := domain.WeekBounds(date, loc)
	isoYear, isoWeek := domain.ISOWeek(weekStart, loc)

	var grid dto.WeekScheduleDTO
	if !uc.cache.GetSchedule(ctx, string(resourceType), isoYear, isoWeek, &grid) {
		built, err := uc.build(ctx, resourceType, weekStart, weekEnd, isoYear, isoWeek, loc)
		if err != nil {
			return nil, err
		}
		grid = *built
		uc.cache.SetSchedule(ctx, string(resourceType), isoYear, isoWeek, grid)
	}

	// Expiry is clock-dependent; stamp it on every read, cached or not.
	for di := range grid.Days {
		day, _ := time.ParseInLocation("2006-01-02", grid.Days[di].Date, loc)
		for ci := range grid.Days[di].Cells {
			cell := &grid.Days[di].Cells[ci]
			cell.Past = domain.IsPast(day, cell.End, now, loc)
		}
	}

	return &grid, nil
}

func (uc *GetWeekSchedule) build(
	ctx context.Context,
	resourceType domain.ResourceType,
	weekStart time.Time,
	weekEnd time.Time,
	isoYear int,
	isoWeek int,
	loc *time.Location,
) (*dto.WeekScheduleDTO, error) {

	slots, err := uc.ledger.ListSlots(ctx, resourceType)
	if err != nil {
		return nil, err
	}

	bookings, err := uc.ledger.ListActiveForRange(ctx, resourceType, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	// taken units per (slotID, date)
	type cellKey struct {
		slotID uint
		date   string
	}
	taken := make(map[cellKey]int, len(bookings))
	for _, b := range bookings {
		k := cellKey{slotID: b.SlotID, date: b.BookingDate.Format("2006-01-02")}
		taken[k] += b.Units
	}

	grid := &dto.WeekScheduleDTO{
		ResourceType: string(resourceType),
		ISOYear:      isoYear,
		ISOWeek:      isoWeek,
		WeekStart:    weekStart.Format("2006-01-02"),
	}

	for d := 0; d < 7; d++ {
		day := weekStart.AddDate(0, 0, d)
		dayDTO := dto.ScheduleDayDTO{
			Date:      day.Format("2006-01-02"),
			DayOfWeek: int(day.Weekday()),
		}

		for _, slot := range slots {
			if slot.DayOfWeek != int(day.Weekday()) {
				continue
			}

			used := taken[cellKey{slotID: slot.ID, date: dayDTO.Date}]
			dayDTO.Cells = append(dayDTO.Cells, dto.ScheduleCellDTO{
				SlotID:        slot.ID,
				Start:         slot.StartTime,
				End:           slot.EndTime,
				CapacityUnits: slot.CapacityUnits,
				TakenUnits:    used,
				Full:          used >= slot.CapacityUnits,
			})
		}

		grid.Days = append(grid.Days, dayDTO)
	}

	return grid, nil
}
