package service

import "time"

// Clock - источник текущего времени; подменяется в тестах
type Clock interface {
	Now() time.Time
}

// SystemClock возвращает время в заданной зоне (календарная математика зависит от нее)
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock всегда возвращает одно и то же время
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// Lookup - внешняя функция локализации: ключ и параметры в готовую строку
type Lookup func(key string, params map[string]any) string
