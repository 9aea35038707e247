package toxplan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseSymptom_TagOrLabel(t *testing.T) {
	for in, want := range map[string]Symptom{
		"hypoglycemia":                    Hypoglycemia,
		"Hypoglycemia":                    Hypoglycemia,
		"Altered consciousness / GCS <15": AlteredConsciousness,
		"  corrosive_ingestion ":          CorrosiveIngestion,
		"ARRHYTHMIAS / AV BLOCK":          Arrhythmia,
	} {
		got, err := ParseSymptom(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseSymptoms_ReportsUnknown(t *testing.T) {
	_, err := ParseSymptoms([]string{"seizures", "itchy nose", "sneezing"})
	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "symptoms", invalid.Field)
	assert.Contains(t, invalid.Reason, `"itchy nose"`)
	assert.Contains(t, invalid.Reason, `"sneezing"`)
}

func TestParseSymptoms_Deduplicates(t *testing.T) {
	set, err := ParseSymptoms([]string{"Seizures", "seizures", "Miosis"})
	require.NoError(t, err)
	assert.Equal(t, SymptomSet{Seizures, Miosis}, set)
}

func TestSymptomSet_YAML(t *testing.T) {
	var in PatientInput
	err := yaml.Unmarshal([]byte(`
age: 2
weightKg: 12.5
symptoms:
  - Hypoglycemia
  - respiratory_distress
`), &in)
	require.NoError(t, err)
	assert.True(t, in.Symptoms.HasAny(Hypoglycemia))
	assert.True(t, in.Symptoms.Has(RespiratoryDistress))
	assert.Equal(t, 12.5, in.WeightKg)
}

func TestSymptoms_CatalogIsCopy(t *testing.T) {
	list := Symptoms()
	require.NotEmpty(t, list)
	list[0].Label = "changed"
	assert.Equal(t, "Altered consciousness / GCS <15", AlteredConsciousness.Label())
}

func TestAntidotes_CatalogOrder(t *testing.T) {
	list := Antidotes()
	require.Len(t, list, 11)
	assert.Equal(t, "acetaminophen", list[0].Tag)
	assert.Equal(t, "benzodiazepine", list[len(list)-1].Tag)
}
