package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/paradoxie/niche-dashboard/internal/domain/service"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// message - шаблон подписи, опционально с формой единственного числа
type message struct {
	One   string
	Other string
}

// UnmarshalYAML принимает строку или map {one, other}
func (m *message) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		m.Other = node.Value
		return nil
	}
	var forms struct {
		One   string `yaml:"one"`
		Other string `yaml:"other"`
	}
	if err := node.Decode(&forms); err != nil {
		return err
	}
	m.One, m.Other = forms.One, forms.Other
	return nil
}

// Catalog хранит подписи всех локалей; реализует port.Localizer
type Catalog struct {
	messages      map[string]map[string]message
	defaultLocale string
}

// Load читает встроенные каталоги locales/*.yaml
func Load(defaultLocale string) (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	sources := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", entry.Name(), err)
		}
		sources[strings.TrimSuffix(entry.Name(), ".yaml")] = data
	}
	return Parse(sources, defaultLocale)
}

// Parse строит каталог из YAML-документов: locale -> содержимое
func Parse(sources map[string][]byte, defaultLocale string) (*Catalog, error) {
	c := &Catalog{messages: make(map[string]map[string]message, len(sources))}

	for locale, data := range sources {
		var tree map[string]map[string]message
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", locale, err)
		}

		flat := make(map[string]message)
		for group, items := range tree {
			for name, msg := range items {
				flat[group+"."+name] = msg
			}
		}
		c.messages[normalize(locale)] = flat
	}

	c.defaultLocale = normalize(defaultLocale)
	if _, ok := c.messages[c.defaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q has no catalog", defaultLocale)
	}
	return c, nil
}

// Locales - список поддерживаемых локалей
func (c *Catalog) Locales() []string {
	locales := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// Resolve выбирает первую поддерживаемую локаль. Кандидаты - значения ?lang=
// или заголовка Accept-Language ("zh-CN,zh;q=0.9,en;q=0.8").
func (c *Catalog) Resolve(candidates ...string) string {
	for _, candidate := range candidates {
		for _, part := range strings.Split(candidate, ",") {
			tag, _, _ := strings.Cut(part, ";")
			locale := normalize(tag)
			if _, ok := c.messages[locale]; ok {
				return locale
			}
		}
	}
	return c.defaultLocale
}

// Lookup возвращает функцию подписи; неизвестный ключ ищется в локали
// по умолчанию, затем возвращается как есть
func (c *Catalog) Lookup(locale string) service.Lookup {
	messages, ok := c.messages[normalize(locale)]
	if !ok {
		messages = c.messages[c.defaultLocale]
	}
	fallback := c.messages[c.defaultLocale]

	return func(key string, params map[string]any) string {
		msg, ok := messages[key]
		if !ok {
			msg, ok = fallback[key]
		}
		if !ok {
			return key
		}
		return render(pick(msg, params), params)
	}
}

func pick(msg message, params map[string]any) string {
	if msg.One == "" {
		return msg.Other
	}
	for _, name := range []string{"count", "days"} {
		if value, ok := params[name]; ok {
			if n, ok := value.(int); ok && n == 1 {
				return msg.One
			}
			break
		}
	}
	return msg.Other
}

func render(template string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(template, "{{") {
		return template
	}
	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{{"+name+"}}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// normalize: "zh-CN" -> "zh", " EN " -> "en"
func normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if base, _, ok := strings.Cut(tag, "-"); ok {
		return base
	}
	if base, _, ok := strings.Cut(tag, "_"); ok {
		return base
	}
	return tag
}
