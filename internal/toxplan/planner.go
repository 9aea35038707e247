package toxplan

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Skufu/pedtox/internal/dosing"
)

const (
	MinAge = 0
	MaxAge = 18

	DefaultMinWeightKg = 1.0
	DefaultMaxWeightKg = 100.0

	charcoalWindowHours = 2.0
)

// Limits bounds the weights a Planner accepts.
type Limits struct {
	MinWeightKg float64
	MaxWeightKg float64
}

func DefaultLimits() Limits {
	return Limits{MinWeightKg: DefaultMinWeightKg, MaxWeightKg: DefaultMaxWeightKg}
}

func (l Limits) Validate() error {
	if !(l.MinWeightKg > 0) {
		return fmt.Errorf("minimum weight must be greater than zero, got %v", l.MinWeightKg)
	}
	if !(l.MaxWeightKg > l.MinWeightKg) {
		return fmt.Errorf("maximum weight %v must exceed minimum weight %v", l.MaxWeightKg, l.MinWeightKg)
	}
	return nil
}

// Planner turns patient input into an ordered management checklist. It holds
// no mutable state and is safe for concurrent use.
type Planner struct {
	limits Limits
}

func NewPlanner(limits Limits) (*Planner, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	return &Planner{limits: limits}, nil
}

func (p *Planner) Limits() Limits {
	return p.limits
}

// Generate evaluates in with the default weight limits.
func Generate(in PatientInput) ([]Recommendation, error) {
	return (&Planner{limits: DefaultLimits()}).Generate(in)
}

func (p *Planner) Generate(in PatientInput) ([]Recommendation, error) {
	if err := p.validate(in); err != nil {
		return nil, err
	}

	toxin := normalizeToxin(in.SuspectedToxin)
	d := &doser{weightKg: in.WeightKg}

	var recs []Recommendation
	recs = append(recs, stabilization(in, d)...)
	recs = append(recs, decontamination(in, d)...)
	recs = append(recs, antidotes(toxin, d)...)
	recs = append(recs, disposition(in, toxin))
	if in.Intentional {
		recs = append(recs, safeguarding())
	}
	recs = append(recs, counseling())

	if d.err != nil {
		return nil, d.err
	}
	return recs, nil
}

func (p *Planner) validate(in PatientInput) error {
	if in.Age < MinAge || in.Age > MaxAge {
		return &InvalidInputError{
			Field:  "age",
			Reason: fmt.Sprintf("%d is outside %d-%d years", in.Age, MinAge, MaxAge),
		}
	}
	w := in.WeightKg
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return &InvalidInputError{Field: "weight", Reason: dosing.ErrInvalidWeight.Error(), Err: dosing.ErrInvalidWeight}
	}
	if w < p.limits.MinWeightKg || w > p.limits.MaxWeightKg {
		return &InvalidInputError{
			Field:  "weight",
			Reason: fmt.Sprintf("%v kg is outside %v-%v kg", w, p.limits.MinWeightKg, p.limits.MaxWeightKg),
		}
	}
	return nil
}

// doser computes doses for one patient and keeps the first failure so stage
// builders can stay free of error plumbing.
type doser struct {
	weightKg float64
	err      error
}

func (d *doser) dose(s dosing.Spec) dosing.Dose {
	out, err := dosing.Compute(s, d.weightKg)
	if err != nil && d.err == nil {
		d.err = err
		if errors.Is(err, dosing.ErrInvalidWeight) {
			d.err = &InvalidInputError{Field: "weight", Reason: err.Error(), Err: err}
		}
	}
	return out
}

func stabilization(in PatientInput, d *doser) []Recommendation {
	recs := []Recommendation{{
		Stage: StageStabilization,
		Tag:   "abcd",
		Title: "ABCD stabilization",
		Details: []string{
			"Airway: secure if GCS <8 or aspiration risk; intubate PRN",
			"Breathing: O2 if SpO2 <94%",
			"Circulation: IV access, treat shock",
			"Disability: check BG now; Exposure: temperature and seizure control",
		},
		Severity: SeverityInfo,
	}}

	if !in.Symptoms.HasAny(Hypoglycemia, AlteredConsciousness) {
		return recs
	}

	var (
		bolus dosing.Dose
		label string
	)
	if in.Age < 1 {
		bolus = d.dose(dosing.PerKg(2.5, "mL D10W"))
		label = "D10W bolus 2-3 mL/kg IV (0.2-0.3 g/kg glucose): "
	} else {
		bolus = d.dose(dosing.PerKg(3.5, "mL D10W"))
		label = "D10W bolus 2-5 mL/kg IV (0.2-0.5 g/kg glucose): "
	}

	return append(recs, Recommendation{
		Stage: StageStabilization,
		Tag:   "dextrose",
		Title: "Hypoglycemia: bolus dextrose now",
		Details: []string{
			label + bolus.Text,
			"Follow with GIR 5-8 mg/kg/min infusion, titrate to BG >70 mg/dL",
		},
		Doses:    []dosing.Dose{bolus},
		Severity: SeverityWarning,
	})
}

func decontamination(in PatientInput, d *doser) []Recommendation {
	var recs []Recommendation
	if in.Symptoms.Has(CorrosiveIngestion) {
		recs = append(recs, Recommendation{
			Stage:    StageDecontamination,
			Tag:      "charcoal_contraindicated_corrosive",
			Title:    "Activated charcoal contraindicated: corrosive ingestion",
			Details:  []string{"Do not induce emesis; consider early endoscopy"},
			Severity: SeverityError,
		})
	}
	if in.Symptoms.Has(HydrocarbonIngestion) {
		recs = append(recs, Recommendation{
			Stage:    StageDecontamination,
			Tag:      "charcoal_contraindicated_hydrocarbon",
			Title:    "Activated charcoal contraindicated: hydrocarbon ingestion",
			Details:  []string{"Aspiration risk; monitor for pneumonitis"},
			Severity: SeverityError,
		})
	}

	// A contraindication always suppresses charcoal, whatever the timing.
	if hours, ok := ParseElapsed(in.ElapsedTime); len(recs) == 0 && ok && hours <= charcoalWindowHours {
		charcoal := d.dose(dosing.PerKg(1, "g").WithMax(50))
		return []Recommendation{{
			Stage:    StageDecontamination,
			Tag:      "charcoal",
			Title:    "Activated charcoal: " + charcoal.Text,
			Doses:    []dosing.Dose{charcoal},
			Severity: SeveritySuccess,
		}}
	}

	return append(recs, Recommendation{
		Stage:    StageDecontamination,
		Tag:      "charcoal_not_indicated",
		Title:    "Charcoal not indicated beyond 2 hours, with unknown timing or after caustic/hydrocarbon ingestion",
		Severity: SeverityInfo,
	})
}

func antidotes(toxin string, d *doser) []Recommendation {
	var recs []Recommendation
	if toxin != "" {
		for _, rule := range antidoteTable {
			if !rule.matches(toxin) {
				continue
			}
			rec := rule.build(d)
			rec.Stage = StageAntidote
			rec.Tag = rule.tag
			recs = append(recs, rec)
		}
	}
	if len(recs) > 0 {
		return recs
	}
	return []Recommendation{{
		Stage:    StageAntidote,
		Tag:      "supportive_care",
		Title:    "No specific antidote identified: supportive care",
		Details:  []string{"Contact poison control for agent-specific advice"},
		Severity: SeverityInfo,
	}}
}

var highRiskSymptoms = []Symptom{
	AlteredConsciousness,
	Seizures,
	BradycardiaHypotension,
	Arrhythmia,
	RespiratoryDistress,
}

func disposition(in PatientInput, toxin string) Recommendation {
	var reasons []string
	for _, s := range highRiskSymptoms {
		if in.Symptoms.Has(s) {
			reasons = append(reasons, s.Label())
		}
	}
	if toxin != "" {
		reasons = append(reasons, "suspected toxin: "+strings.TrimSpace(in.SuspectedToxin))
	}
	if in.Intentional {
		reasons = append(reasons, "intentional ingestion")
	}

	if len(reasons) > 0 {
		return Recommendation{
			Stage:    StageDisposition,
			Tag:      "admit",
			Title:    "Admit to ward/HDU/ICU",
			Details:  []string{"High risk: " + strings.Join(reasons, "; ")},
			Severity: SeverityError,
		}
	}
	return Recommendation{
		Stage:    StageDisposition,
		Tag:      "observe",
		Title:    "Observe 6-12 hours if low-risk and asymptomatic",
		Severity: SeveritySuccess,
	}
}

func safeguarding() Recommendation {
	return Recommendation{
		Stage:    StageSafeguarding,
		Tag:      "psychiatric_evaluation",
		Title:    "Intentional ingestion: mandatory psychiatric evaluation and safeguarding",
		Severity: SeverityWarning,
	}
}

func counseling() Recommendation {
	return Recommendation{
		Stage: StageCounseling,
		Tag:   "caregiver_education",
		Title: "Educate caregivers",
		Details: []string{
			"Safe storage out of reach",
			"Child-resistant containers",
			"Proper medication disposal",
		},
		Severity: SeverityInfo,
	}
}
