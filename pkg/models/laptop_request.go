package models

type LaptopRequest struct {
	Brand       string      `json:"brand" binding:"required"`
	Model       string      `json:"model" binding:"required"`
	Serial      string      `json:"serial_number" binding:"required"`
	Description string      `json:"description"`
	Specs       LaptopSpecs `json:"specs"`
	Images      []string    `json:"images"`
}

// BulkLaptopRequest rejestruje partię identycznych laptopów różniących się
// tylko numerem seryjnym.
type BulkLaptopRequest struct {
	Brand       string      `json:"brand" binding:"required"`
	Model       string      `json:"model" binding:"required"`
	Serials     []string    `json:"serial_numbers" binding:"required"`
	Description string      `json:"description"`
	Specs       LaptopSpecs `json:"specs"`
}

type UpdateLaptopRequest struct {
	Brand       *string      `json:"brand"`
	Model       *string      `json:"model"`
	Serial      *string      `json:"serial_number"`
	Description *string      `json:"description"`
	Specs       *LaptopSpecs `json:"specs"`
	Images      *[]string    `json:"images"`
}

// LaptopChanges to zestaw kolumn do aktualizacji. Ścieżka edycji
// administracyjnej nigdy nie dotyka kolumn rental_*.
type LaptopChanges struct {
	Brand       *string
	Model       *string
	Serial      *string
	Description *string
	Specs       *LaptopSpecs
	Images      *[]string
}

func (c *LaptopChanges) HasChanges() bool {
	return c.Brand != nil || c.Model != nil || c.Serial != nil ||
		c.Description != nil || c.Specs != nil || c.Images != nil
}
