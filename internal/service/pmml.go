package service

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/beevik/etree"
)

//go:embed models/loan_default_scorecard.pmml
var defaultScorecardPMML []byte

const defaultDecisionThreshold = 0.5

type numericTerm struct {
	Feature     string
	Coefficient float64
	Exponent    float64
}

// Scorecard - логистическая регрессия, загруженная из PMML
type Scorecard struct {
	Name        string
	Version     string
	Intercept   float64
	Numeric     []numericTerm
	Categorical map[string]map[string]float64
	Importance  map[string]float64
	Threshold   float64
}

// LoadDefaultScorecard разбирает модель, встроенную в бинарник
func LoadDefaultScorecard() (*Scorecard, error) {
	return ParseScorecard(defaultScorecardPMML)
}

// LoadScorecardFile читает модель из файла PMML
func LoadScorecardFile(path string) (*Scorecard, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return ParseScorecard(raw)
}

// ParseScorecard извлекает коэффициенты из RegressionModel с logit-нормализацией
func ParseScorecard(raw []byte) (*Scorecard, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse PMML: %w", err)
	}

	modelEl := doc.FindElement("//RegressionModel")
	if modelEl == nil {
		return nil, errors.New("PMML has no <RegressionModel>")
	}
	if norm := modelEl.SelectAttrValue("normalizationMethod", ""); norm != "logit" {
		return nil, fmt.Errorf("unsupported normalizationMethod %q", norm)
	}

	sc := &Scorecard{
		Name:        modelEl.SelectAttrValue("modelName", "regression"),
		Version:     "unknown",
		Categorical: make(map[string]map[string]float64),
		Importance:  make(map[string]float64),
		Threshold:   defaultDecisionThreshold,
	}
	if app := doc.FindElement("//Header/Application"); app != nil {
		sc.Version = app.SelectAttrValue("version", sc.Version)
	}

	for _, field := range modelEl.FindElements("./MiningSchema/MiningField") {
		if field.SelectAttrValue("usageType", "active") == "target" {
			continue
		}
		imp, err := floatAttr(field, "importance", 0)
		if err != nil {
			return nil, err
		}
		sc.Importance[field.SelectAttrValue("name", "")] = imp
	}

	table := modelEl.FindElement("./RegressionTable[@targetCategory='1']")
	if table == nil {
		return nil, errors.New("PMML has no RegressionTable for targetCategory 1")
	}

	var err error
	if sc.Intercept, err = floatAttr(table, "intercept", 0); err != nil {
		return nil, err
	}

	for _, el := range table.SelectElements("NumericPredictor") {
		coef, err := floatAttr(el, "coefficient", 0)
		if err != nil {
			return nil, err
		}
		exp, err := floatAttr(el, "exponent", 1)
		if err != nil {
			return nil, err
		}
		sc.Numeric = append(sc.Numeric, numericTerm{
			Feature:     el.SelectAttrValue("name", ""),
			Coefficient: coef,
			Exponent:    exp,
		})
	}

	for _, el := range table.SelectElements("CategoricalPredictor") {
		coef, err := floatAttr(el, "coefficient", 0)
		if err != nil {
			return nil, err
		}
		name := el.SelectAttrValue("name", "")
		if sc.Categorical[name] == nil {
			sc.Categorical[name] = make(map[string]float64)
		}
		sc.Categorical[name][el.SelectAttrValue("value", "")] = coef
	}

	if ext := modelEl.FindElement("./Extension[@name='decision_threshold']"); ext != nil {
		if sc.Threshold, err = floatAttr(ext, "value", defaultDecisionThreshold); err != nil {
			return nil, err
		}
	}

	return sc, nil
}

func floatAttr(el *etree.Element, key string, def float64) (float64, error) {
	raw := el.SelectAttrValue(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q on <%s>: %w", key, raw, el.Tag, err)
	}
	return v, nil
}

// term - вклад одного признака в логит
type term struct {
	Feature      string
	Value        float64
	Category     string
	Contribution float64
}

// Terms раскладывает логит по признакам в порядке модели
func (s *Scorecard) Terms(f features) []term {
	terms := make([]term, 0, len(s.Numeric)+len(s.Categorical))
	for _, n := range s.Numeric {
		v := f.Numeric[n.Feature]
		x := v
		if n.Exponent != 1 {
			x = math.Pow(v, n.Exponent)
		}
		terms = append(terms, term{Feature: n.Feature, Value: v, Contribution: n.Coefficient * x})
	}
	for _, name := range categoricalFeatures {
		levels, ok := s.Categorical[name]
		if !ok {
			continue
		}
		cat := f.Categorical[name]
		terms = append(terms, term{Feature: name, Category: cat, Contribution: levels[cat]})
	}
	return terms
}

// Probability возвращает вероятность дефолта через логистическую функцию
func (s *Scorecard) Probability(terms []term) float64 {
	logit := s.Intercept
	for _, t := range terms {
		logit += t.Contribution
	}
	return 1 / (1 + math.Exp(-logit))
}
