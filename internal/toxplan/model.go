package toxplan

import (
	"github.com/Skufu/pedtox/internal/dosing"
)

// Severity only drives display emphasis; no stage branches on it.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Stage string

const (
	StageStabilization   Stage = "stabilization"
	StageDecontamination Stage = "decontamination"
	StageAntidote        Stage = "antidote"
	StageDisposition     Stage = "disposition"
	StageSafeguarding    Stage = "safeguarding"
	StageCounseling      Stage = "counseling"
)

// Title is the section heading shown for a stage.
func (s Stage) Title() string {
	switch s {
	case StageStabilization:
		return "ABCD Stabilization"
	case StageDecontamination:
		return "Selective Decontamination"
	case StageAntidote:
		return "Antidotes & Targeted Therapy"
	case StageDisposition:
		return "Disposition & Monitoring"
	case StageSafeguarding:
		return "Safeguarding"
	case StageCounseling:
		return "Prevention Counseling"
	default:
		return string(s)
	}
}

// Stages lists every stage in evaluation order.
func Stages() []Stage {
	return []Stage{
		StageStabilization,
		StageDecontamination,
		StageAntidote,
		StageDisposition,
		StageSafeguarding,
		StageCounseling,
	}
}

type PatientInput struct {
	Age            int        `json:"age" yaml:"age"`
	WeightKg       float64    `json:"weightKg" yaml:"weightKg"`
	ElapsedTime    string     `json:"elapsedTime" yaml:"elapsedTime"`
	SuspectedToxin string     `json:"suspectedToxin" yaml:"suspectedToxin"`
	Symptoms       SymptomSet `json:"symptoms" yaml:"symptoms"`
	Intentional    bool       `json:"intentional" yaml:"intentional"`
}

type Recommendation struct {
	Stage    Stage         `json:"stage"`
	Tag      string        `json:"tag"`
	Title    string        `json:"title"`
	Details  []string      `json:"details,omitempty"`
	Doses    []dosing.Dose `json:"doses,omitempty"`
	Severity Severity      `json:"severity"`
}
