package toxplan

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Plan is a generated checklist together with the input it was built from.
type Plan struct {
	ID              uuid.UUID        `json:"id"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	Patient         PatientInput     `json:"patient"`
	Recommendations []Recommendation `json:"recommendations"`
}

func (p *Planner) Plan(in PatientInput) (*Plan, error) {
	recs, err := p.Generate(in)
	if err != nil {
		return nil, err
	}
	if in.Symptoms == nil {
		in.Symptoms = SymptomSet{}
	}
	return &Plan{
		ID:              uuid.New(),
		GeneratedAt:     time.Now().UTC(),
		Patient:         in,
		Recommendations: recs,
	}, nil
}

// Heading summarises the patient the plan was built for.
func (p *Plan) Heading() string {
	return fmt.Sprintf("Management Plan: Age %d yrs, Weight %.1f kg", p.Patient.Age, p.Patient.WeightKg)
}

// ByStage groups recommendations by stage, preserving order within each
// stage. Stages with no recommendations are omitted.
func (p *Plan) ByStage() []StageGroup {
	var groups []StageGroup
	for _, stage := range Stages() {
		var recs []Recommendation
		for _, r := range p.Recommendations {
			if r.Stage == stage {
				recs = append(recs, r)
			}
		}
		if len(recs) > 0 {
			groups = append(groups, StageGroup{Stage: stage, Recommendations: recs})
		}
	}
	return groups
}

type StageGroup struct {
	Stage           Stage
	Recommendations []Recommendation
}
