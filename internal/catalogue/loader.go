package catalogue

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogueFile is the on-disk YAML shape:
//
//	categories:
//	  - name: Поддержка
//	    phrases:
//	      - Ты справишься!
type catalogueFile struct {
	Categories []Category `yaml:"categories"`
}

// LoadFile reads a catalogue from a YAML file and validates it.
func LoadFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue file: %w", err)
	}

	var file catalogueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue file %s: %w", path, err)
	}

	cat, err := New(file.Categories)
	if err != nil {
		return nil, fmt.Errorf("invalid catalogue in %s: %w", path, err)
	}
	return cat, nil
}

// Default returns the built-in catalogue used when no catalogue file is
// configured. The list is intentionally short; a real deployment ships a
// fuller file and points the config at it.
func Default() *Catalogue {
	cat, err := New([]Category{
		{Name: "Поддержка", Phrases: []string{
			"Ты справишься!",
			"Дыши глубже, все ок",
		}},
		{Name: "Вдохновение", Phrases: []string{
			"Ты как лучик света",
			"Сегодня твой день",
		}},
		{Name: "Юмор", Phrases: []string{
			"Кофе уже в пути",
		}},
		{Name: "Напоминания", Phrases: []string{
			"Вода? Пора глоток",
			"Спинка прямая",
		}},
		{Name: "Отдых", Phrases: []string{
			"Микро-перерыв?",
		}},
		{Name: "Цели", Phrases: []string{
			"Шаг за шагом",
		}},
		{Name: "Похвала", Phrases: []string{
			"Я горжусь тобой",
		}},
		{Name: "Дружба", Phrases: []string{
			"Я рядом, Марго",
		}},
		{Name: "Энергия", Phrases: []string{
			"Зажигаем день!",
		}},
	})
	if err != nil {
		// The built-in catalogue is a compile-time constant; it cannot fail
		// validation unless it was edited into an invalid state.
		panic(fmt.Sprintf("built-in catalogue invalid: %v", err))
	}
	return cat
}
