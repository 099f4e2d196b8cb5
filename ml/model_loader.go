package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type envelope struct {
	Type string `json:"type"`
}

// LoadModel decodes a classifier export, dispatching on its type tag.
func LoadModel(r io.Reader) (Classifier, error) {
	payload, modelType, err := readEnvelope(r)
	if err != nil {
		return nil, err
	}
	switch modelType {
	case "random_forest":
		model := &RandomForest{}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, err
		}
		if err := model.validate(); err != nil {
			return nil, err
		}
		return model, nil
	case "logistic_regression":
		model := &LogisticRegression{}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, err
		}
		if err := model.validate(); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", modelType)
	}
}

// LoadScaler decodes a scaler export, dispatching on its type tag.
func LoadScaler(r io.Reader) (Scaler, error) {
	payload, scalerType, err := readEnvelope(r)
	if err != nil {
		return nil, err
	}
	switch scalerType {
	case "standard_scaler":
		scaler := &StandardScaler{}
		if err := json.Unmarshal(payload, scaler); err != nil {
			return nil, err
		}
		if err := scaler.validate(); err != nil {
			return nil, err
		}
		return scaler, nil
	case "minmax_scaler":
		scaler := &MinMaxScaler{}
		if err := json.Unmarshal(payload, scaler); err != nil {
			return nil, err
		}
		if err := scaler.validate(); err != nil {
			return nil, err
		}
		return scaler, nil
	default:
		return nil, fmt.Errorf("unsupported scaler type %q", scalerType)
	}
}

func readEnvelope(r io.Reader) ([]byte, string, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, "", err
	}
	if env.Type == "" {
		return nil, "", errors.New("artifact type is missing")
	}
	return payload, env.Type, nil
}
