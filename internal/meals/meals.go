// Package meals loads the meal suggestion document and draws random picks
// from it.
//
// The document is YAML with four lists:
//
//	早餐: [豆浆油条, 包子]
//	午餐: [盖浇饭]
//	晚餐: [火锅]
//	夜宵: [烧烤]
package meals

import (
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

// Fallback is served when a category is empty.
const Fallback = "西北风"

type Menu struct {
	Breakfast     []string `yaml:"早餐"`
	Lunch         []string `yaml:"午餐"`
	Dinner        []string `yaml:"晚餐"`
	MidnightSnack []string `yaml:"夜宵"`
}

// Load reads and parses the document at path.
func Load(path string) (*Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read meal data: %w", err)
	}

	var m Menu
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse meal data: %w", err)
	}
	return &m, nil
}

func (m *Menu) PickBreakfast(r *rand.Rand) string { return pick(r, m.Breakfast) }

func (m *Menu) PickLunch(r *rand.Rand) string { return pick(r, m.Lunch) }

// PickDinner draws from lunch and dinner options together.
func (m *Menu) PickDinner(r *rand.Rand) string {
	options := make([]string, 0, len(m.Lunch)+len(m.Dinner))
	options = append(options, m.Lunch...)
	options = append(options, m.Dinner...)
	return pick(r, options)
}

func (m *Menu) PickMidnightSnack(r *rand.Rand) string { return pick(r, m.MidnightSnack) }

func pick(r *rand.Rand, options []string) string {
	if len(options) == 0 {
		return Fallback
	}
	return options[r.IntN(len(options))]
}
