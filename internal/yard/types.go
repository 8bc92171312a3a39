// Package yard defines the domain model for the maintenance yard:
// trains, the three resource kinds (inspection bays, workshop lines,
// siding slots), recommendations, and the event vocabulary.
//
// Everything here is plain data. All behavior lives in internal/engine,
// which owns the single mutable aggregate built from these types.
package yard

import "time"

// TrainStatus is the lifecycle state of a train in the yard.
type TrainStatus string

const (
	StatusArriving   TrainStatus = "arriving"
	StatusQueued     TrainStatus = "queued"
	StatusInspection TrainStatus = "inspection"
	StatusMoving     TrainStatus = "moving"
	StatusParked     TrainStatus = "parked"
	StatusWorkshop   TrainStatus = "workshop"
	StatusDeparted   TrainStatus = "departed"
)

// FailureWheelAlignment is the defect tag that hard-restricts workshop
// eligibility to the line specialized for it.
const FailureWheelAlignment = "wheel-alignment"

// Task is a single entry on a train's job card.
type Task struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// Train is the authoritative record for one train in the yard.
//
// INVARIANT: Location always names a node the train legitimately
// occupies (the entry node, or the node of a resource whose OccupiedBy
// is this train's ID).
type Train struct {
	ID          string      `json:"id"`
	Number      string      `json:"number"`
	Status      TrainStatus `json:"status"`
	Location    string      `json:"location"` // node id
	Orientation string      `json:"orientation,omitempty"`
	Fitness     int         `json:"fitness"` // 0-100
	Mileage     int         `json:"mileage"`
	JobCard     []Task      `json:"job_card,omitempty"`
	Failures    []string    `json:"failures,omitempty"`
	Priority    bool        `json:"priority,omitempty"`
	DepartSoon  bool        `json:"depart_soon,omitempty"`
	ArrivalTime time.Time   `json:"arrival_time"`
	LastUpdated time.Time   `json:"last_updated"`
}

// HasFailure reports whether the train carries the given defect tag.
func (t *Train) HasFailure(tag string) bool {
	for _, f := range t.Failures {
		if f == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Snapshot reads hand these out so callers
// never hold a live reference into the aggregate.
func (t *Train) Clone() *Train {
	c := *t
	if t.JobCard != nil {
		c.JobCard = make([]Task, len(t.JobCard))
		copy(c.JobCard, t.JobCard)
	}
	if t.Failures != nil {
		c.Failures = make([]string, len(t.Failures))
		copy(c.Failures, t.Failures)
	}
	return &c
}

// ResourceStatus is the occupancy state of a bay, line, or slot.
type ResourceStatus string

const (
	ResourceFree     ResourceStatus = "free"
	ResourceOccupied ResourceStatus = "occupied"
)

// Bay is an inspection bay.
//
// INVARIANT: OccupiedBy is set iff Status is ResourceOccupied.
type Bay struct {
	ID              string         `json:"id"`
	NodeID          string         `json:"node_id"`
	Status          ResourceStatus `json:"status"`
	OccupiedBy      string         `json:"occupied_by,omitempty"`
	InspectionStart time.Time      `json:"inspection_start,omitempty"`
}

// WorkshopLine is a repair line, optionally specialized to one defect tag.
// Capacity is effectively 1: OccupiedBy holds at most one train.
type WorkshopLine struct {
	ID             string         `json:"id"`
	NodeID         string         `json:"node_id"`
	Specialization string         `json:"specialization,omitempty"`
	Primary        bool           `json:"primary,omitempty"`
	Status         ResourceStatus `json:"status"`
	OccupiedBy     string         `json:"occupied_by,omitempty"`
}

// SlotPosition distinguishes the front (a) and rear (b) slot of a siding.
// Slot b sits behind a and needs one extra shunt move past it.
type SlotPosition string

const (
	SlotA SlotPosition = "a"
	SlotB SlotPosition = "b"
)

// Risk is the qualitative blocking-risk bucket of a siding slot.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// TopSidingNumber is the highest siding number the yard model supports.
// Lower numbers sit closer to the exit throat.
const TopSidingNumber = 13

// DeriveRisk computes the fixed blocking risk for a slot, once at
// initialization. Slot a of a siding is never riskier than slot b, and
// risk falls monotonically as the siding number rises (higher-numbered
// sidings are further from the throat and obstruct fewer moves).
func DeriveRisk(sidingNumber int, slot SlotPosition) Risk {
	score := TopSidingNumber - sidingNumber
	if slot == SlotB {
		score += 6
	}
	switch {
	case score >= 13:
		return RiskHigh
	case score >= 7:
		return RiskMedium
	default:
		return RiskLow
	}
}

// SidingSlot is a parking slot. Slots come in fixed a/b pairs per siding.
type SidingSlot struct {
	ID           string         `json:"id"`
	NodeID       string         `json:"node_id"`
	SidingNumber int            `json:"siding_number"`
	Slot         SlotPosition   `json:"slot"`
	ReverseCost  float64        `json:"reverse_cost"`
	BlockingRisk Risk           `json:"blocking_risk"`
	Status       ResourceStatus `json:"status"`
	OccupiedBy   string         `json:"occupied_by,omitempty"`
}

// TargetType distinguishes recommendation targets.
type TargetType string

const (
	TargetSiding   TargetType = "siding"
	TargetWorkshop TargetType = "workshop"
)

// Recommendation is a ranked destination suggestion for a specific train.
// It is ephemeral: computed on demand and never stored as yard state.
// Reasoning and Warnings are explanatory only, never authoritative.
type Recommendation struct {
	TargetID     string        `json:"target_id"`
	TargetType   TargetType    `json:"target_type"`
	Score        float64       `json:"score"`
	ReverseCost  float64       `json:"reverse_cost,omitempty"`
	Distance     float64       `json:"distance"`
	BlockingRisk Risk          `json:"blocking_risk,omitempty"`
	ETAToPark    time.Duration `json:"eta_to_park"`
	ShuntSteps   int           `json:"shunt_steps"`
	Reasoning    []string      `json:"reasoning,omitempty"`
	Warnings     []string      `json:"warnings,omitempty"`
}
