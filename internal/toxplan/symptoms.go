package toxplan

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

type Symptom string

const (
	AlteredConsciousness   Symptom = "altered_consciousness"
	Seizures               Symptom = "seizures"
	Hypoglycemia           Symptom = "hypoglycemia"
	RespiratoryDistress    Symptom = "respiratory_distress"
	BradycardiaHypotension Symptom = "bradycardia_hypotension"
	Arrhythmia             Symptom = "arrhythmia"
	Hyperkalemia           Symptom = "hyperkalemia"
	Secretions             Symptom = "secretions"
	Miosis                 Symptom = "miosis"
	Mydriasis              Symptom = "mydriasis"
	VomitingAspiration     Symptom = "vomiting_aspiration"
	CorrosiveIngestion     Symptom = "corrosive_ingestion"
	HydrocarbonIngestion   Symptom = "hydrocarbon_ingestion"
)

type SymptomInfo struct {
	Tag   Symptom `json:"tag"`
	Label string  `json:"label"`
}

var symptomCatalog = []SymptomInfo{
	{AlteredConsciousness, "Altered consciousness / GCS <15"},
	{Seizures, "Seizures"},
	{Hypoglycemia, "Hypoglycemia"},
	{RespiratoryDistress, "Respiratory distress"},
	{BradycardiaHypotension, "Bradycardia / Hypotension"},
	{Arrhythmia, "Arrhythmias / AV block"},
	{Hyperkalemia, "Hyperkalemia"},
	{Secretions, "Excessive secretions / SLUDGE"},
	{Miosis, "Miosis"},
	{Mydriasis, "Mydriasis"},
	{VomitingAspiration, "Vomiting / Aspiration risk"},
	{CorrosiveIngestion, "Corrosive ingestion"},
	{HydrocarbonIngestion, "Hydrocarbon ingestion"},
}

// Symptoms returns the symptom vocabulary in display order.
func Symptoms() []SymptomInfo {
	out := make([]SymptomInfo, len(symptomCatalog))
	copy(out, symptomCatalog)
	return out
}

func (s Symptom) Label() string {
	for _, info := range symptomCatalog {
		if info.Tag == s {
			return info.Label
		}
	}
	return string(s)
}

// ParseSymptom accepts a tag ("hypoglycemia") or a display label
// ("Altered consciousness / GCS <15"), ignoring case.
func ParseSymptom(text string) (Symptom, error) {
	fold := cases.Fold()
	key := fold.String(strings.TrimSpace(text))
	if key == "" {
		return "", &InvalidInputError{Field: "symptoms", Reason: "empty symptom"}
	}
	for _, info := range symptomCatalog {
		if key == string(info.Tag) || key == fold.String(info.Label) {
			return info.Tag, nil
		}
	}
	return "", &InvalidInputError{Field: "symptoms", Reason: fmt.Sprintf("unknown symptom %q", text)}
}

func (s Symptom) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

func (s *Symptom) UnmarshalText(b []byte) error {
	parsed, err := ParseSymptom(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// SymptomSet is an ordered, duplicate-free list of symptoms.
type SymptomSet []Symptom

func NewSymptomSet(symptoms ...Symptom) SymptomSet {
	set := make(SymptomSet, 0, len(symptoms))
	for _, s := range symptoms {
		if !set.Has(s) {
			set = append(set, s)
		}
	}
	return set
}

// ParseSymptoms parses every entry and reports all unknown ones in a single
// error.
func ParseSymptoms(texts []string) (SymptomSet, error) {
	var (
		parsed  []Symptom
		unknown []string
	)
	for _, text := range texts {
		s, err := ParseSymptom(text)
		if err != nil {
			unknown = append(unknown, fmt.Sprintf("%q", text))
			continue
		}
		parsed = append(parsed, s)
	}
	if len(unknown) > 0 {
		return nil, &InvalidInputError{
			Field:  "symptoms",
			Reason: "unknown symptom " + strings.Join(unknown, ", "),
		}
	}
	return NewSymptomSet(parsed...), nil
}

func (set SymptomSet) Has(s Symptom) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func (set SymptomSet) HasAny(symptoms ...Symptom) bool {
	for _, s := range symptoms {
		if set.Has(s) {
			return true
		}
	}
	return false
}
