package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Skufu/pedtox/internal/render"
	"github.com/Skufu/pedtox/internal/toxplan"
)

type planRequest struct {
	Age            *int     `json:"age" binding:"required,gte=0,lte=18"`
	WeightKg       *float64 `json:"weightKg" binding:"required,gt=0"`
	ElapsedTime    string   `json:"elapsedTime" binding:"max=64"`
	SuspectedToxin string   `json:"suspectedToxin" binding:"max=200"`
	Symptoms       []string `json:"symptoms" binding:"max=32"`
	Intentional    bool     `json:"intentional"`
}

func (r planRequest) toInput() (toxplan.PatientInput, error) {
	symptoms, err := toxplan.ParseSymptoms(r.Symptoms)
	if err != nil {
		return toxplan.PatientInput{}, err
	}
	return toxplan.PatientInput{
		Age:            *r.Age,
		WeightKg:       *r.WeightKg,
		ElapsedTime:    r.ElapsedTime,
		SuspectedToxin: strings.TrimSpace(r.SuspectedToxin),
		Symptoms:       symptoms,
		Intentional:    r.Intentional,
	}, nil
}

func (h *handler) symptoms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symptoms": toxplan.Symptoms()})
}

func (h *handler) antidotes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"antidotes": toxplan.Antidotes()})
}

func (h *handler) plan(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "json"))
	var renderer render.Renderer
	if format != "json" {
		r, err := render.New(format)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		renderer = r
	}

	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	in, err := req.toInput()
	if err != nil {
		h.invalidInput(c, err)
		return
	}

	plan, err := h.planner.Plan(in)
	if err != nil {
		h.invalidInput(c, err)
		return
	}

	h.log.Debug().
		Str("request_id", c.GetString(requestIDKey)).
		Str("plan_id", plan.ID.String()).
		Int("recommendations", len(plan.Recommendations)).
		Msg("plan generated")

	if renderer == nil {
		c.JSON(http.StatusOK, plan)
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, plan); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Data(http.StatusOK, renderer.ContentType(), buf.Bytes())
}

func (h *handler) bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "details": []string{describeType(typeErr)}})
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, describe(fe))
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "details": details})
}

func (h *handler) invalidInput(c *gin.Context, err error) {
	var invalid *toxplan.InvalidInputError
	if !errors.As(err, &invalid) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "plan generation failed"})
		return
	}

	h.log.Warn().
		Str("request_id", c.GetString(requestIDKey)).
		Str("field", invalid.Field).
		Str("reason", invalid.Reason).
		Msg("invalid patient input")

	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "details": []string{invalid.Error()}})
}

var fieldNames = map[string]string{
	"Age":            "age",
	"WeightKg":       "weight",
	"ElapsedTime":    "time since exposure",
	"SuspectedToxin": "suspected toxin",
	"Symptoms":       "symptoms",
}

var jsonFieldNames = map[string]string{
	"age":            "age",
	"weightKg":       "weight",
	"elapsedTime":    "time since exposure",
	"suspectedToxin": "suspected toxin",
	"symptoms":       "symptoms",
	"intentional":    "intentional",
}

func describeType(te *json.UnmarshalTypeError) string {
	name, ok := jsonFieldNames[te.Field]
	if !ok {
		name = te.Field
	}
	t := te.Type
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var want string
	switch {
	case t == nil:
		want = "a valid value"
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Uint64:
		want = "a whole number"
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		want = "a number"
	case t.Kind() == reflect.String:
		want = "text"
	case t.Kind() == reflect.Bool:
		want = "true or false"
	case t.Kind() == reflect.Slice:
		want = "a list"
	default:
		want = "a valid value"
	}
	return fmt.Sprintf("%s must be %s", name, want)
}

func describe(fe validator.FieldError) string {
	name, ok := fieldNames[fe.Field()]
	if !ok {
		name = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s exceeds maximum length %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}
