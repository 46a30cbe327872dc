package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"gscore/internal/models"
	"gscore/internal/redis"
	"gscore/internal/repository"

	"github.com/shopspring/decimal"
)

// MarkupService applies regional shipping markups keyed by destination
// ZIP or state. ZIP matches take precedence over state matches.
type MarkupService interface {
	ApplyMarkup(cost float64, dest models.Destination) float64
	ZipTable() map[string]float64
	StateTable() map[string]float64
	SaveTables(zipText, stateText string) error
	TableText(key string) (string, error)
	EnsureDefaults() error
}

type markupService struct {
	settingsRepo repository.SettingsRepository
	cache        *redis.Client
	cacheTTL     time.Duration
}

func NewMarkupService(settingsRepo repository.SettingsRepository, cache *redis.Client, cacheTTL time.Duration) MarkupService {
	return &markupService{settingsRepo: settingsRepo, cache: cache, cacheTTL: cacheTTL}
}

var (
	markupLineRe    = regexp.MustCompile(`^(\w+)\s+([\d.]+)%?$`)
	zipMarkupLineRe = regexp.MustCompile(`^(\d{5})\s+([\d.]+)%?$`)
	stateMarkupLineRe = regexp.MustCompile(`^([A-Z]{2})\s+([\d.]+)%?$`)
)

func (s *markupService) ApplyMarkup(cost float64, dest models.Destination) float64 {
	zipMarkups := s.ZipTable()
	stateMarkups := s.StateTable()

	markupPercent := 0.0
	if pct, ok := zipMarkups[dest.Postcode]; ok {
		markupPercent = pct
	} else if pct, ok := stateMarkups[dest.State]; ok {
		markupPercent = pct
	}

	if markupPercent > 0 {
		return Round2(cost * (1 + markupPercent/100))
	}
	return cost
}

func (s *markupService) ZipTable() map[string]float64 {
	return s.table(models.OptionRegionalMarkupsZip, defaultZipMarkups())
}

func (s *markupService) StateTable() map[string]float64 {
	return s.table(models.OptionRegionalMarkupsState, defaultStateMarkups())
}

func (s *markupService) table(key string, defaults map[string]float64) map[string]float64 {
	if s.cache != nil {
		if table, ok, err := s.cache.GetMarkupTable(key); err == nil && ok {
			return table
		}
	}

	text, found, err := s.settingsRepo.Get(key)
	table := defaults
	if err == nil && found && strings.TrimSpace(text) != "" {
		table = textToTable(text, defaults)
	}

	if s.cache != nil {
		s.cache.SetMarkupTable(key, table, s.cacheTTL)
	}
	return table
}

// SaveTables validates and persists both tables. Invalid lines are
// silently discarded; the stored text is the re-serialized valid subset.
func (s *markupService) SaveTables(zipText, stateText string) error {
	zipClean := sanitizeTableText(zipText, zipMarkupLineRe)
	stateClean := sanitizeTableText(stateText, stateMarkupLineRe)

	if err := s.settingsRepo.Set(models.OptionRegionalMarkupsZip, zipClean); err != nil {
		return fmt.Errorf("failed to save zip markups: %w", err)
	}
	if err := s.settingsRepo.Set(models.OptionRegionalMarkupsState, stateClean); err != nil {
		return fmt.Errorf("failed to save state markups: %w", err)
	}

	if s.cache != nil {
		s.cache.InvalidateMarkupTable(models.OptionRegionalMarkupsZip)
		s.cache.InvalidateMarkupTable(models.OptionRegionalMarkupsState)
	}
	return nil
}

func (s *markupService) TableText(key string) (string, error) {
	text, found, err := s.settingsRepo.Get(key)
	if err != nil {
		return "", err
	}
	if !found || strings.TrimSpace(text) == "" {
		switch key {
		case models.OptionRegionalMarkupsZip:
			return tableToText(defaultZipMarkups()), nil
		case models.OptionRegionalMarkupsState:
			return tableToText(defaultStateMarkups()), nil
		}
	}
	return text, nil
}

// EnsureDefaults seeds the option rows on first run so the admin textarea
// starts from the built-in tables.
func (s *markupService) EnsureDefaults() error {
	if _, found, err := s.settingsRepo.Get(models.OptionRegionalMarkupsZip); err != nil {
		return err
	} else if !found {
		if err := s.settingsRepo.Set(models.OptionRegionalMarkupsZip, tableToText(defaultZipMarkups())); err != nil {
			return err
		}
	}
	if _, found, err := s.settingsRepo.Get(models.OptionRegionalMarkupsState); err != nil {
		return err
	} else if !found {
		if err := s.settingsRepo.Set(models.OptionRegionalMarkupsState, tableToText(defaultStateMarkups())); err != nil {
			return err
		}
	}
	return nil
}

func textToTable(text string, defaults map[string]float64) map[string]float64 {
	if strings.TrimSpace(text) == "" {
		return defaults
	}
	table := make(map[string]float64)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := markupLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		pct, err := decimal.NewFromString(m[2])
		if err != nil {
			continue
		}
		table[m[1]] = pct.InexactFloat64()
	}
	// Non-empty text that parses to nothing means no markup, not the
	// defaults. Only an unset option falls back.
	return table
}

func sanitizeTableText(text string, lineRe *regexp.Regexp) string {
	table := make(map[string]float64)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		pct, err := decimal.NewFromString(m[2])
		if err != nil {
			continue
		}
		table[m[1]] = pct.InexactFloat64()
	}
	return tableToText(table)
}

func tableToText(table map[string]float64) string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s %s", k, decimal.NewFromFloat(table[k]).String()))
	}
	return strings.Join(lines, "\n")
}

// Built-in markup tables covering the store's historically expensive
// fulfillment regions, used until the options are saved.

func defaultZipMarkups() map[string]float64 {
	return map[string]float64{
		"07876": 20.0, "05001": 25.0, "02901": 25.0,
		"81120": 30.0, "81302": 30.0, "81303": 30.0, "81301": 30.0,
		"80435": 30.0, "80438": 30.0, "80442": 30.0, "80443": 30.0,
		"80446": 30.0, "80447": 30.0, "80451": 30.0, "80452": 30.0,
		"80459": 30.0, "80468": 30.0, "80473": 30.0, "80478": 30.0,
		"80482": 30.0,
	}
}

func defaultStateMarkups() map[string]float64 {
	return map[string]float64{
		"NJ": 20.0, "NY": 20.0, "VT": 25.0, "RI": 25.0, "CO": 30.0,
		"ME": 25.0, "NH": 25.0, "CT": 25.0, "VA": 25.0, "ND": 35.0,
		"WI": 65.0, "WY": 30.0, "CA": 75.0, "MA": 40.0, "MT": 75.0,
		"AL": 30.0, "MD": 20.0, "MI": 150.0, "UT": 100.0, "IL": 50.0,
	}
}
