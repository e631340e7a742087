package domain

import "time"

// A single line item on a delivery order.
type OrderLine struct {
	Item     string
	Quantity float64
	Weight   float64
	Volume   float64
}

// A customer order to be delivered to one address.
//
// Weight and Volume are derived from the order lines once during demand
// preparation and treated as immutable afterwards. Deadline and Priority are
// carried through for reporting but do not influence assignment.
type DeliveryOrder struct {
	ID           int
	AddressID    int
	DeliveryType string
	Lines        []OrderLine
	Deadline     *time.Time
	Priority     string

	Weight float64
	Volume float64
}

// ComputeDemand aggregates line quantities into the order's total weight and
// volume.
func (o *DeliveryOrder) ComputeDemand() {
	var weight, volume float64
	for _, l := range o.Lines {
		weight += l.Quantity * l.Weight
		volume += l.Quantity * l.Volume
	}
	o.Weight = weight
	o.Volume = volume
}
