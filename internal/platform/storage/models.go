package storage

import (
	"encoding/json"
	"fmt"

	"github.com/doorland/catalog-sync/internal/platform/models"
)

// toDBCharacteristics serializes ordered characteristics into the jsonb
// column. An empty list is stored as an empty array, not NULL.
func toDBCharacteristics(chars []models.Characteristic) ([]byte, error) {
	if chars == nil {
		chars = []models.Characteristic{}
	}

	payload, err := json.Marshal(chars)
	if err != nil {
		return nil, fmt.Errorf("can't marshal characteristics: %w", err)
	}

	return payload, nil
}

func fromDBCharacteristics(payload []byte) ([]models.Characteristic, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	var chars []models.Characteristic
	if err := json.Unmarshal(payload, &chars); err != nil {
		return nil, fmt.Errorf("can't unmarshal characteristics: %w", err)
	}

	return chars, nil
}
