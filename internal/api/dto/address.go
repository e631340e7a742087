package dto

type AddressResponse struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type ListAddressesResponse struct {
	TotalItems int               `json:"total_items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	Items      []AddressResponse `json:"items"`
}
