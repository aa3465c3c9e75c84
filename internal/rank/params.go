// Package rank orders tasks by how actionable they are right now.
//
// Each task is normalized into bounded factors, placed into one of two
// scoring regimes by its days remaining, and scored. URGENT covers anything
// overdue or due within a few days; STRATEGIC covers the rest. Scores are
// recomputed on every call because they depend on the evaluation date.
package rank

// UrgentParams are the constants of the urgent scoring regime.
type UrgentParams struct {
	CriticalityWeight float64 // multiplier on criticality
	OverdueBase       float64 // urgency for any overdue task
	OverduePerDay     float64 // extra urgency per day overdue
	DueToday          float64 // urgency plateau when due today
	DueTomorrow       float64 // urgency plateau when due tomorrow
	DecayNumerator    float64 // urgency = DecayNumerator / (1 + daysLeft) beyond tomorrow
	EffortWeight      float64 // penalty per effort factor point
	MandaysWeight     float64 // penalty per man-day
	MandaysCap        float64 // ceiling on the man-day penalty
}

// StrategicParams are the constants of the strategic scoring regime.
type StrategicParams struct {
	CriticalityWeight     float64 // multiplier on criticality
	UrgencyNumerator      float64 // urgency = UrgencyNumerator / (1 + daysLeft*DecayRate)
	DecayRate             float64
	ForgivenessThreshold  int     // criticality at or above which penalties are discounted
	EffortWeight          float64 // penalty per effort point below the threshold
	MandaysWeight         float64 // penalty per man-day below the threshold
	ForgivenEffortWeight  float64 // penalty per effort point at or above the threshold
	ForgivenMandaysWeight float64 // penalty per man-day at or above the threshold
}

// Params holds every tunable constant of the engine.
type Params struct {
	// UrgentWindow is the largest daysLeft still scored as URGENT.
	UrgentWindow int
	Urgent       UrgentParams
	Strategic    StrategicParams
}

// DefaultParams returns the stock engine constants.
func DefaultParams() Params {
	return Params{
		UrgentWindow: 3,
		Urgent: UrgentParams{
			CriticalityWeight: 30,
			OverdueBase:       200,
			OverduePerDay:     30,
			DueToday:          180,
			DueTomorrow:       150,
			DecayNumerator:    120,
			EffortWeight:      8,
			MandaysWeight:     2,
			MandaysCap:        20,
		},
		Strategic: StrategicParams{
			CriticalityWeight:     50,
			UrgencyNumerator:      40,
			DecayRate:             0.05,
			ForgivenessThreshold:  4,
			EffortWeight:          15,
			MandaysWeight:         3,
			ForgivenEffortWeight:  8,
			ForgivenMandaysWeight: 1.5,
		},
	}
}
