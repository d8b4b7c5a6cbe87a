package dto

type BookingListDTO struct {
	ID           uint   `json:"id"`
	Reference    string `json:"reference"`
	ResourceType string `json:"resource_type"`
	Date         string `json:"date"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Units        int    `json:"units"`
	Status       string `json:"status"`
}
