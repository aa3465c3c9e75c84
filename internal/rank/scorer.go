package rank

import "math"

// Breakdown records the terms of a single evaluation.
// Score = max(0, Round2(Base + Urgency - Penalty)).
type Breakdown struct {
	Base    float64 `json:"base" yaml:"base"`
	Urgency float64 `json:"urgency" yaml:"urgency"`
	Penalty float64 `json:"penalty" yaml:"penalty"`
	Score   float64 `json:"score" yaml:"score"`
}

// Scorer computes a score for one regime.
type Scorer interface {
	Mode() Mode
	Score(in Inputs) Breakdown
}

// UrgentScorer lets deadline pressure dominate. Overdue urgency grows without
// bound and the man-day penalty is capped so a large estimate cannot bury a
// task that is already late.
type UrgentScorer struct {
	P UrgentParams
}

// Mode implements Scorer.
func (UrgentScorer) Mode() Mode { return ModeUrgent }

// Score implements Scorer.
func (s UrgentScorer) Score(in Inputs) Breakdown {
	p := s.P

	var urgency float64
	switch d := in.DaysLeft; {
	case d < 0:
		urgency = p.OverdueBase + float64(-d)*p.OverduePerDay
	case d == 0:
		urgency = p.DueToday
	case d == 1:
		urgency = p.DueTomorrow
	default:
		urgency = p.DecayNumerator / float64(1+d)
	}

	penalty := float64(in.EffortFactor)*p.EffortWeight + math.Min(float64(in.Mandays)*p.MandaysWeight, p.MandaysCap)
	base := float64(in.Criticality) * p.CriticalityWeight

	return finish(base, urgency, penalty)
}

// StrategicScorer rewards importance. High-criticality work gets discounted
// effort and man-day penalties so it is not buried under quick trivial tasks.
type StrategicScorer struct {
	P StrategicParams
}

// Mode implements Scorer.
func (StrategicScorer) Mode() Mode { return ModeStrategic }

// Score implements Scorer.
func (s StrategicScorer) Score(in Inputs) Breakdown {
	p := s.P

	urgency := p.UrgencyNumerator / (1 + float64(in.DaysLeft)*p.DecayRate)

	effortWeight, mandaysWeight := p.EffortWeight, p.MandaysWeight
	if in.Criticality >= p.ForgivenessThreshold {
		effortWeight, mandaysWeight = p.ForgivenEffortWeight, p.ForgivenMandaysWeight
	}
	penalty := float64(in.EffortFactor)*effortWeight + float64(in.Mandays)*mandaysWeight
	base := float64(in.Criticality) * p.CriticalityWeight

	return finish(base, urgency, penalty)
}

// finish applies the shared rounding and zero clamp.
func finish(base, urgency, penalty float64) Breakdown {
	score := Round2(base + urgency - penalty)
	if score < 0 {
		score = 0
	}
	return Breakdown{
		Base:    Round2(base),
		Urgency: Round2(urgency),
		Penalty: Round2(penalty),
		Score:   score,
	}
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // normalize -0
	}
	return r
}
