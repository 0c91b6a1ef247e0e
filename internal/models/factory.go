package models

import (
	"fmt"
)

type ModelConfig struct {
	Algorithm    string
	K            int
	Structure    SearchStructure
	Weighting    Weighting
	MaxDepth     int
	MinSplit     int
	NTrees       int
	VarSmoothing float64
}

// CanonicalAlgorithm maps the accepted aliases to one algorithm name.
func CanonicalAlgorithm(name string) (string, error) {
	switch name {
	case "knn", "ibk":
		return "knn", nil
	case "tree", "decision_tree":
		return "decision_tree", nil
	case "forest", "random_forest":
		return "random_forest", nil
	case "bayes", "naive_bayes":
		return "naive_bayes", nil
	default:
		return "", fmt.Errorf("unknown algorithm: %s", name)
	}
}

func CreateModel(config ModelConfig) (Model, error) {
	algorithm, err := CanonicalAlgorithm(config.Algorithm)
	if err != nil {
		return nil, err
	}

	switch algorithm {
	case "knn":
		if config.K <= 0 {
			config.K = 1
		}
		return NewKNN(config.K, config.Structure, config.Weighting), nil

	case "decision_tree":
		if config.MaxDepth <= 0 {
			config.MaxDepth = 10
		}
		if config.MinSplit <= 0 {
			config.MinSplit = 2
		}
		return NewDecisionTree(config.MaxDepth, config.MinSplit), nil

	case "random_forest":
		if config.NTrees <= 0 {
			config.NTrees = 100
		}
		if config.MaxDepth <= 0 {
			config.MaxDepth = 10
		}
		if config.MinSplit <= 0 {
			config.MinSplit = 2
		}
		return NewRandomForest(config.NTrees, config.MaxDepth, config.MinSplit), nil

	default:
		if config.VarSmoothing <= 0 {
			config.VarSmoothing = 1e-9
		}
		return NewNaiveBayes(config.VarSmoothing), nil
	}
}

// CreateClassifier wraps the model in a Pipeline with the encoder its
// algorithm expects: the normalised distance encoding for KNN, raw values
// with missing flags for naive Bayes and plain raw values for the trees.
func CreateClassifier(config ModelConfig) (*Pipeline, error) {
	model, err := CreateModel(config)
	if err != nil {
		return nil, err
	}
	switch model.(type) {
	case *KNN:
		return NewPipeline(distanceEncoder(), model), nil
	case *NaiveBayes:
		return NewPipeline(flaggingEncoder(), model), nil
	}
	return NewPipeline(rawEncoder(), model), nil
}

func DefaultConfig(algorithm string) ModelConfig {
	config := ModelConfig{Algorithm: algorithm}

	switch algorithm {
	case "knn":
		config.K = 1
		config.Structure = LinearSearch
		config.Weighting = WeightNone
	case "tree", "decision_tree":
		config.MaxDepth = 10
		config.MinSplit = 2
	case "forest", "random_forest":
		config.NTrees = 100
		config.MaxDepth = 10
		config.MinSplit = 2
	case "bayes", "naive_bayes":
		config.VarSmoothing = 1e-9
	}

	return config
}
