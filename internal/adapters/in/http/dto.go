package http

import "time"

// Request bodies. Identifiers travel as canonical UUID strings, moments as
// RFC 3339 timestamps, money as integer cents.

type createOrderRequest struct {
	CustomerID string  `json:"customer_id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	ZoneCode   string  `json:"zone_code"`
	Octane     int     `json:"octane"`
	Gallons    int     `json:"gallons"`
	// DurationClass is one_hour, three_hour, or same_day; the service
	// window runs from WindowStart for the class duration.
	DurationClass string    `json:"duration_class"`
	WindowStart   time.Time `json:"window_start"`
	TireService   bool      `json:"tire_service"`
	// Subscription defaults to the pay-as-you-go tier when omitted.
	Subscription        string `json:"subscription"`
	SubmittedTotalCents int    `json:"submitted_total_cents"`
}

type transitionOrderRequest struct {
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
	Target    string `json:"target"`
}

type cancelOrderRequest struct {
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
}

type forceAssignOrderRequest struct {
	CourierID string `json:"courier_id"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
}

type registerCourierRequest struct {
	Name  string   `json:"name"`
	Zones []string `json:"zones"`
}

type courierHeartbeatRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	// TankLevels reports estimated gallons remaining keyed by octane grade.
	TankLevels map[int]int `json:"tank_levels"`
	// OnDuty declares a duty-state change; omit to leave it untouched.
	OnDuty *bool `json:"on_duty"`
}

type refillTankRequest struct {
	Octane int `json:"octane"`
}

// Response bodies. Operations answer {success, ...}; refusals answer
// {success:false, reason, message} with the reason codes of the API
// contract.

type failureResponse struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// orderStatusView is the order snapshot returned by state-changing
// operations: which order, and where its lifecycle now stands.
type orderStatusView struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type orderResultResponse struct {
	Success bool            `json:"success"`
	Order   orderStatusView `json:"order"`
}

type heartbeatResponse struct {
	Success bool `json:"success"`
	OnDuty  bool `json:"on_duty"`
}

type courierRegisteredResponse struct {
	Success bool                  `json:"success"`
	Courier courierRegisteredView `json:"courier"`
}

type courierRegisteredView struct {
	ID string `json:"id"`
}

type refillResponse struct {
	Success bool `json:"success"`
}

// Read models for the dashboard endpoints.

type statusEventView struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

type activeOrderView struct {
	ID         string            `json:"id"`
	Status     string            `json:"status"`
	ZoneCode   string            `json:"zone_code"`
	CourierID  *string           `json:"courier_id,omitempty"`
	Lat        float64           `json:"lat"`
	Lng        float64           `json:"lng"`
	TotalCents int               `json:"total_cents"`
	OrderedAt  time.Time         `json:"ordered_at"`
	History    []statusEventView `json:"history"`
}

type courierTankView struct {
	Octane           int `json:"octane"`
	CapacityGallons  int `json:"capacity_gallons"`
	RemainingGallons int `json:"remaining_gallons"`
}

type courierView struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Active        bool              `json:"active"`
	OnDuty        bool              `json:"on_duty"`
	Connected     bool              `json:"connected"`
	Busy          bool              `json:"busy"`
	LastHeartbeat *time.Time        `json:"last_heartbeat,omitempty"`
	Lat           *float64          `json:"lat,omitempty"`
	Lng           *float64          `json:"lng,omitempty"`
	Zones         []string          `json:"zones"`
	Tanks         []courierTankView `json:"tanks"`
}
