package service

import "strings"

// NormalizePresetValue убирает внешние пробелы и схлопывает внутренние
func NormalizePresetValue(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// PresetKey - ключ сравнения: значения, отличающиеся регистром, считаются одинаковыми
func PresetKey(raw string) string {
	return strings.ToLower(NormalizePresetValue(raw))
}

// DedupePresetValues нормализует значения и оставляет первое вхождение каждого ключа
func DedupePresetValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, raw := range values {
		value := NormalizePresetValue(raw)
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, value)
	}
	return result
}
