package valueobject

import "fmt"

// PresetType задает область, в которой пользовательская категория уникальна
type PresetType string

const (
	PresetExpenseCategory  PresetType = "expense_category"
	PresetToolCategory     PresetType = "tool_category"
	PresetResourceCategory PresetType = "resource_category"
)

func ParsePresetType(raw string) (PresetType, error) {
	t := PresetType(raw)
	switch t {
	case PresetExpenseCategory, PresetToolCategory, PresetResourceCategory:
		return t, nil
	default:
		return "", fmt.Errorf("invalid preset type: %q", raw)
	}
}

func AllPresetTypes() []PresetType {
	return []PresetType{PresetExpenseCategory, PresetToolCategory, PresetResourceCategory}
}
