// Package seed holds the built-in category catalogue.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/stemsi/trivia-backend/internal/model"
)

//go:embed categories.json
var categoriesJSON []byte

// Categories decodes the embedded catalogue. Question order numbers follow
// their position in the file.
func Categories() ([]model.Category, error) {
	var cats []model.Category
	if err := json.Unmarshal(categoriesJSON, &cats); err != nil {
		return nil, fmt.Errorf("decode seed categories: %w", err)
	}
	for i := range cats {
		for j := range cats[i].Questions {
			cats[i].Questions[j].OrderNum = j + 1
		}
	}
	return cats, nil
}
