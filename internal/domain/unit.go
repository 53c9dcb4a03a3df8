package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unit — общая единица измерения ("adet", "porsiyon"). Уникальна по NormalizedName, после создания не меняется.
type Unit struct {
	ID             int64
	Name           string
	NormalizedName string
	CreatedAt      time.Time
}

func NewUnit(name string) *Unit {
	trimmed := strings.TrimSpace(name)
	return &Unit{
		Name:           trimmed,
		NormalizedName: NormalizeUnitName(trimmed),
	}
}

// NormalizeUnitName приводит название единицы к ключу уникальности: trim + lower case.
func NormalizeUnitName(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}
