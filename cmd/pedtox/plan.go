package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Skufu/pedtox/internal/config"
	"github.com/Skufu/pedtox/internal/render"
	"github.com/Skufu/pedtox/internal/toxplan"
)

type planFlags struct {
	age         int
	weightKg    float64
	elapsed     string
	toxin       string
	symptoms    []string
	intentional bool
	input       string
	format      string
}

func planCmd() *cobra.Command {
	f := &planFlags{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a management plan for one patient",
		Example: `  pedtox plan --age 5 --weight 20 --elapsed "1 hour" --toxin acetaminophen
  pedtox plan --age 0 --weight 3 --symptom Hypoglycemia --format markdown
  pedtox plan --input case.yaml --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			planner, err := toxplan.NewPlanner(cfg.Limits())
			if err != nil {
				return err
			}
			return runPlan(cmd.OutOrStdout(), planner, f, cmd.Flags().Changed("weight"))
		},
	}

	cmd.Flags().IntVar(&f.age, "age", 5, "Age in years (0-18)")
	cmd.Flags().Float64Var(&f.weightKg, "weight", 20, "Weight in kg")
	cmd.Flags().StringVar(&f.elapsed, "elapsed", "unknown", `Time since exposure, e.g. "1 hour", "90 min", "unknown"`)
	cmd.Flags().StringVar(&f.toxin, "toxin", "", "Suspected toxin, e.g. acetaminophen, iron, digoxin, CCB, organophosphate")
	cmd.Flags().StringArrayVar(&f.symptoms, "symptom", nil, "Symptom tag or label (repeatable)")
	cmd.Flags().BoolVar(&f.intentional, "intentional", false, "Intentional ingestion / self-harm")
	cmd.Flags().StringVar(&f.input, "input", "", "YAML file describing the patient")
	cmd.Flags().StringVar(&f.format, "format", "terminal", "Output format: terminal, pretty, markdown or json")
	cmd.Flags().Float64("min-weight-kg", toxplan.DefaultMinWeightKg, "Minimum accepted weight (MIN_WEIGHT_KG)")
	cmd.Flags().Float64("max-weight-kg", toxplan.DefaultMaxWeightKg, "Maximum accepted weight (MAX_WEIGHT_KG)")

	return cmd
}

func runPlan(w io.Writer, planner *toxplan.Planner, f *planFlags, weightGiven bool) error {
	if f.input == "" && !weightGiven {
		_, err := fmt.Fprintln(w, render.Placeholder)
		return err
	}

	in, err := f.patientInput()
	if err != nil {
		return err
	}

	plan, err := planner.Plan(in)
	if err != nil {
		return err
	}

	if f.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	r, err := render.New(f.format)
	if err != nil {
		return err
	}
	return r.Render(w, plan)
}

func (f *planFlags) patientInput() (toxplan.PatientInput, error) {
	if f.input != "" {
		return readCase(f.input)
	}

	symptoms, err := toxplan.ParseSymptoms(f.symptoms)
	if err != nil {
		return toxplan.PatientInput{}, err
	}
	return toxplan.PatientInput{
		Age:            f.age,
		WeightKg:       f.weightKg,
		ElapsedTime:    f.elapsed,
		SuspectedToxin: f.toxin,
		Symptoms:       symptoms,
		Intentional:    f.intentional,
	}, nil
}

func readCase(path string) (toxplan.PatientInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return toxplan.PatientInput{}, fmt.Errorf("read case file: %w", err)
	}

	var in toxplan.PatientInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return toxplan.PatientInput{}, fmt.Errorf("parse case file %s: %w", path, err)
	}
	in.Symptoms = toxplan.NewSymptomSet(in.Symptoms...)
	return in, nil
}
