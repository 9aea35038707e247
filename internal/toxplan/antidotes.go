package toxplan

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/Skufu/pedtox/internal/dosing"
)

// antidoteRule pairs a keyword predicate with the recommendation it emits.
type antidoteRule struct {
	tag      string
	agent    string
	keywords []string
	build    func(d *doser) Recommendation
}

// AntidoteInfo describes one entry of the antidote table.
type AntidoteInfo struct {
	Tag      string   `json:"tag"`
	Agent    string   `json:"agent"`
	Keywords []string `json:"keywords"`
}

// antidoteTable is scanned in order and every matching rule fires, so an
// ambiguous toxin string never hides a therapy.
var antidoteTable = []antidoteRule{
	{
		tag:      "acetaminophen",
		agent:    "N-acetylcysteine",
		keywords: []string{"acetaminophen", "paracetamol"},
		build: func(d *doser) Recommendation {
			load := d.dose(dosing.PerKg(150, "mg"))
			second := d.dose(dosing.PerKg(50, "mg"))
			third := d.dose(dosing.PerKg(100, "mg"))
			return Recommendation{
				Title: "N-acetylcysteine IV (21-hour protocol)",
				Details: []string{
					"Load: " + load.Text + " over 1 hr",
					"Second bag: " + second.Text + " over 4 hr",
					"Third bag: " + third.Text + " over 16 hr (max 10 g total/day)",
				},
				Doses:    []dosing.Dose{load, second, third},
				Severity: SeveritySuccess,
			}
		},
	},
	{
		tag:      "iron",
		agent:    "Deferoxamine",
		keywords: []string{"iron"},
		build: func(d *doser) Recommendation {
			infusion := d.dose(dosing.PerKg(5, "mg").Hourly())
			return Recommendation{
				Title: "Deferoxamine if severe (serum Fe >350 mcg/dL or shock)",
				Details: []string{
					"IV infusion 5-15 mg/kg/hr: start " + infusion.Text + " (max 6 g/day)",
				},
				Doses:    []dosing.Dose{infusion},
				Severity: SeveritySuccess,
			}
		},
	},
	{
		tag:      "digoxin",
		agent:    "Digoxin immune Fab",
		keywords: []string{"digoxin"},
		build: func(d *doser) Recommendation {
			empiric := d.dose(dosing.Fixed(3, "vials"))
			return Recommendation{
				Title: "Digoxin Fab for arrhythmias, hyperkalemia or massive overdose",
				Details: []string{
					"Vials = (serum digoxin ng/mL x weight kg x 0.6) / 0.5",
					"Empiric start: " + empiric.Text + ", up to 5 vials depending on severity",
				},
				Doses:    []dosing.Dose{empiric},
				Severity: SeveritySuccess,
			}
		},
	},
	{
		tag:      "calcium_channel_blocker",
		agent:    "High-dose insulin euglycemic therapy + calcium",
		keywords: []string{"calcium channel", "ccb"},
		build: func(d *doser) Recommendation {
			bolus := d.dose(dosing.PerKg(1, "units"))
			infusion := d.dose(dosing.PerKg(0.5, "units").Hourly())
			calcium := d.dose(dosing.PerKg(0.6, "mL").WithMax(20))
			return Recommendation{
				Title: "HIET + calcium",
				Details: []string{
					"Insulin bolus 1 unit/kg IV: " + bolus.Text,
					"Insulin infusion 0.5-1 unit/kg/hr: start " + infusion.Text,
					"Calcium gluconate 10% 0.5-1 mL/kg IV: " + calcium.Text,
				},
				Doses:    []dosing.Dose{bolus, infusion, calcium},
				Severity: SeveritySuccess,
			}
		},
	},
	{
		tag:      "beta_blocker",
		agent:    "Glucagon + high-dose insulin euglycemic therapy",
		keywords: []string{"beta blocker"},
		build: func(d *doser) Recommendation {
			glucagon := d.dose(dosing.PerKg(0.05, "mg").WithMax(5))
			insulin := d.dose(dosing.PerKg(1, "units"))
			return Recommendation{
				Title: "HIET + glucagon",
				Details: []string{
					"Glucagon bolus 0.05-0.1 mg/kg IV: " + glucagon.Text,
					"Insulin bolus 1 unit/kg IV: " + insulin.Text,
				},
				Doses:    []dosing.Dose{glucagon, insulin},
				Severity: SeveritySuccess,
			}
		},
	},
	{
		tag:      "organophosphate",
		agent:    "Atropine + pralidoxime",
		keywords: []string{"organophosphate"},
		build: func(d *doser) Recommendation {
			pralidoxime := d.dose(dosing.PerKg(30, "mg").WithMax(2000))
			atropine := d.dose(dosing.PerKg(0.02, "mg").WithMin(0.1))
			return Recommendation{
				Title: "Atropine + pralidoxime",
				Details: []string{
					"Pralidoxime load 25-50 mg/kg: " + pralidoxime.Text,
					"Atropine " + atropine.Text + " IV q3-5 min, double until secretions dry",
				},
				Doses:    []dosing.Dose{pralidoxime, atropine},
				Severity: SeveritySuccess,
			}
		},
	},
	{
		tag:      "opioid",
		agent:    "Naloxone",
		keywords: []string{"opioid"},
		build: func(d *doser) Recommendation {
			naloxone := d.dose(dosing.PerKg(0.04, "mg").WithMax(2))
			return Recommendation{
				Title:    "Naloxone: " + naloxone.Text + " IV (0.01-0.1 mg/kg, titrate)",
				Doses:    []dosing.Dose{naloxone},
				Severity: SeveritySuccess,
			}
		},
	},
	{
		tag:      "sulfonylurea",
		agent:    "Octreotide",
		keywords: []string{"sulfonylurea"},
		build: func(d *doser) Recommendation {
			octreotide := d.dose(dosing.PerKg(1.5, "mcg").WithMax(100))
			return Recommendation{
				Title:    "Octreotide: " + octreotide.Text + " SC/IV q6-12h (1-2 mcg/kg)",
				Details:  []string{"Continue dextrose to keep BG >70 mg/dL"},
				Doses:    []dosing.Dose{octreotide},
				Severity: SeveritySuccess,
			}
		},
	},
	{
		tag:      "cyanide",
		agent:    "Hydroxocobalamin",
		keywords: []string{"cyanide"},
		build: func(d *doser) Recommendation {
			hydroxocobalamin := d.dose(dosing.PerKg(70, "mg").WithMax(5000))
			return Recommendation{
				Title:    "Hydroxocobalamin: " + hydroxocobalamin.Text + " IV over 15 min",
				Doses:    []dosing.Dose{hydroxocobalamin},
				Severity: SeveritySuccess,
			}
		},
	},
	{
		tag:      "toxic_alcohol",
		agent:    "Fomepizole",
		keywords: []string{"methanol", "ethylene glycol"},
		build: func(d *doser) Recommendation {
			load := d.dose(dosing.PerKg(15, "mg"))
			maintenance := d.dose(dosing.PerKg(10, "mg"))
			return Recommendation{
				Title: "Fomepizole for methanol / ethylene glycol",
				Details: []string{
					"Load: " + load.Text + " IV over 30 min",
					"Maintenance: " + maintenance.Text + " IV q12h",
					"Discuss hemodialysis for acidosis or visual/renal involvement",
				},
				Doses:    []dosing.Dose{load, maintenance},
				Severity: SeveritySuccess,
			}
		},
	},
	{
		tag:      "benzodiazepine",
		agent:    "Flumazenil",
		keywords: []string{"benzodiazepine"},
		build: func(d *doser) Recommendation {
			flumazenil := d.dose(dosing.PerKg(0.01, "mg").WithMax(0.2))
			return Recommendation{
				Title: "Supportive care; flumazenil only for iatrogenic sedation",
				Details: []string{
					"Flumazenil " + flumazenil.Text + " IV",
					"Avoid with seizure history, chronic benzodiazepine use or co-ingestants",
				},
				Doses:    []dosing.Dose{flumazenil},
				Severity: SeverityWarning,
			}
		},
	},
}

// Antidotes returns the antidote table in evaluation order.
func Antidotes() []AntidoteInfo {
	out := make([]AntidoteInfo, 0, len(antidoteTable))
	for _, r := range antidoteTable {
		out = append(out, AntidoteInfo{
			Tag:      r.tag,
			Agent:    r.agent,
			Keywords: append([]string(nil), r.keywords...),
		})
	}
	return out
}

func (r antidoteRule) matches(toxin string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(toxin, kw) {
			return true
		}
	}
	return false
}

// normalizeToxin case-folds the text and treats hyphens and underscores as
// spaces, so "Beta-Blocker" matches "beta blocker".
func normalizeToxin(text string) string {
	text = cases.Fold().String(text)
	text = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, text)
	return strings.Join(strings.Fields(text), " ")
}
