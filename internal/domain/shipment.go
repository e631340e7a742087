package domain

// Reason explains why an order could not be routed.
type Reason string

const (
	ReasonNoDeliveryAddress  Reason = "NoDeliveryAddress"
	ReasonExceedsCapacity    Reason = "ExceedsCapacity"
	ReasonNoVehicleAvailable Reason = "NoVehicleAvailable"
)

// One stop on a vehicle's route.
type RoutePoint struct {
	AddressID int
	OrderID   int
	Sequence  int     // 1-based position within the route
	Latitude  float64
	Longitude float64
	StartTime int     // minutes after trip start
	Distance  float64 // meters from the previous point
}

// One vehicle trip from the depot, through its stops, and back.
type Shipment struct {
	VehicleID     int
	Trip          int // 1-based, increasing across scheduler rounds
	Route         []RoutePoint
	TotalDistance float64 // meters
	TotalTime     int     // minutes
	TotalWeight   float64
	TotalVolume   float64
	TotalCost     float64
	WeightRate    float64 // assigned weight / vehicle limit, 0 when unbounded
	VolumeRate    float64
}

// An order that ended up outside every shipment, with the reason it was
// skipped.
type UnassignedOrder struct {
	OrderID int
	Reason  Reason
}
