package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aleister1102/phishlens/internal/common"
	"github.com/aleister1102/phishlens/internal/features"
)

// LinearModel is a logistic model over the feature vector, shipped as a YAML or JSON
// artifact. Weights are keyed by feature name; missing names weigh zero.
type LinearModel struct {
	ModelName string             `yaml:"name" json:"name" validate:"required"`
	Version   string             `yaml:"version,omitempty" json:"version,omitempty"`
	Intercept float64            `yaml:"intercept" json:"intercept" validate:"finite"`
	Weights   map[string]float64 `yaml:"weights" json:"weights" validate:"required,min=1,dive,keys,featurename,endkeys,finite"`

	coef [features.Count]float64
}

var modelValidator = func() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("featurename", func(fl validator.FieldLevel) bool {
		_, ok := features.Lookup(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}()

// LoadLinearModel reads and validates an artifact. ".yaml" and ".yml" are parsed as
// YAML, anything else as JSON.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "read model artifact")
	}

	var m LinearModel
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		err = yaml.Unmarshal(data, &m)
	} else {
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, common.NewError("failed to unmarshal model from '%s': %w", path, err)
	}

	if err := m.prepare(); err != nil {
		return nil, err
	}
	return &m, nil
}

// NewLinearModel builds a model in code.
func NewLinearModel(name string, intercept float64, weights map[string]float64) (*LinearModel, error) {
	m := &LinearModel{ModelName: name, Intercept: intercept, Weights: weights}
	if err := m.prepare(); err != nil {
		return nil, err
	}
	return m, nil
}

// LinearModelLoader adapts LoadLinearModel for Holder.Load.
func LinearModelLoader(path string) Loader {
	return func() (Scorer, error) {
		return LoadLinearModel(path)
	}
}

func (m *LinearModel) prepare() error {
	if err := modelValidator.Struct(m); err != nil {
		return common.NewValidationError("model", m.ModelName, err.Error())
	}
	for name, w := range m.Weights {
		f, _ := features.Lookup(name)
		m.coef[f] = w
	}
	return nil
}

// Name returns "name@version", or just the name.
func (m *LinearModel) Name() string {
	if m.Version == "" {
		return m.ModelName
	}
	return m.ModelName + "@" + m.Version
}

// Score evaluates the model on an already extracted vector.
func (m *LinearModel) Score(v features.Vector) float64 {
	z := m.Intercept
	for i, x := range v.Values() {
		z += m.coef[i] * x
	}
	return sigmoid(z)
}

func (m *LinearModel) RawProbability(ctx context.Context, url string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return clamp(m.Score(features.Extract(url)))
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// String is used in logs.
func (m *LinearModel) String() string {
	return fmt.Sprintf("LinearModel(%s, %d weights)", m.Name(), len(m.Weights))
}
