package dto

type ScheduleCellDTO struct {
	SlotID        uint   `json:"slot_id"`
	Start         string `json:"start"`
	End           string `json:"end"`
	CapacityUnits int    `json:"capacity_units"`
	TakenUnits    int    `json:"taken_units"`
	Full          bool   `json:"full"`
	Past          bool   `json:"past"`
}

type ScheduleDayDTO struct {
	Date      string            `json:"date"`
	DayOfWeek int               `json:"day_of_week"`
	Cells     []ScheduleCellDTO `json:"cells"`
}

type WeekScheduleDTO struct {
	ResourceType string           `json:"resource_type"`
	ISOYear      int              `json:"iso_year"`
	ISOWeek      int              `json:"iso_week"`
	WeekStart    string           `json:"week_start"`
	Days         []ScheduleDayDTO `json:"days"`
}

type UsageDTO struct {
	ResourceType string `json:"resource_type"`
	Basis        string `json:"basis"`
	Used         int    `json:"used"`
	Limit        int    `json:"limit"`
	Remaining    int    `json:"remaining"`
	ISOYear      int    `json:"iso_year"`
	ISOWeek      int    `json:"iso_week"`
}
