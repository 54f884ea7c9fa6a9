// Package mapper coerces loosely typed provider records into the canonical
// opportunity and job shapes.
//
// Optional contact fields holding a "missing data" sentinel ("Not Found",
// "Missing", "N/A", ...) are cleared so that every consumer sees a single
// representation of unknown: the empty string.
package mapper

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/justsurfingit/lead-scout/internal/metrics"
	"github.com/justsurfingit/lead-scout/internal/models"
)

const defaultCurrency = "$"

// ErrInvalidJobLink marks a job whose sourceUrl cannot be opened.
var ErrInvalidJobLink = eris.New("mapper: job needs an http(s) sourceUrl")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return HasHTTPScheme(fl.Field().String())
	})
	return v
}

// HasHTTPScheme reports whether s starts with http:// or https://.
func HasHTTPScheme(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

var sentinels = map[string]struct{}{
	"":              {},
	"-":             {},
	"n/a":           {},
	"na":            {},
	"none":          {},
	"null":          {},
	"undefined":     {},
	"unknown":       {},
	"not found":     {},
	"not available": {},
	"missing":       {},
}

// IsUnknown reports whether s is empty or a "missing data" sentinel.
func IsUnknown(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	if _, ok := sentinels[lower]; ok {
		return true
	}
	return strings.HasPrefix(lower, "not found") || strings.HasPrefix(lower, "missing")
}

func clean(s string) string {
	if IsUnknown(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// Opportunities maps records to business opportunities. Records that fail to
// decode entirely are skipped; partially decodable ones keep what decoded.
func Opportunities(records []map[string]any) []models.BusinessOpportunity {
	out := make([]models.BusinessOpportunity, 0, len(records))
	for _, r := range records {
		var opp models.BusinessOpportunity
		if err := decode(r, &opp); err != nil {
			zap.L().Debug("mapper: partial opportunity decode", zap.Error(err))
		}
		out = append(out, Opportunity(opp))
	}
	return out
}

// Opportunity completes an already typed record the way Opportunities does:
// an id when missing, sentinels cleared, enums and currency defaulted.
func Opportunity(o models.BusinessOpportunity) models.BusinessOpportunity {
	o.ID = strings.TrimSpace(o.ID)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.Name = strings.TrimSpace(o.Name)
	o.Location = strings.TrimSpace(o.Location)

	o.Phone = clean(o.Phone)
	o.Email = clean(o.Email)
	o.Website = clean(o.Website)
	o.OwnerName = clean(o.OwnerName)
	o.OwnerPhone = clean(o.OwnerPhone)
	o.GMBLink = clean(o.GMBLink)

	if o.SocialLinks != nil {
		sl := models.SocialLinks{
			LinkedIn:  clean(o.SocialLinks.LinkedIn),
			Instagram: clean(o.SocialLinks.Instagram),
			Facebook:  clean(o.SocialLinks.Facebook),
			Yelp:      clean(o.SocialLinks.Yelp),
		}
		if sl == (models.SocialLinks{}) {
			o.SocialLinks = nil
		} else {
			o.SocialLinks = &sl
		}
	}

	o.LeadSource = canonical(o.LeadSource, models.LeadSources, models.SourceDirect)
	o.BusinessSize = canonical(o.BusinessSize, models.BusinessSizes, "")
	if strings.TrimSpace(o.CurrencySymbol) == "" {
		o.CurrencySymbol = defaultCurrency
	}
	return o
}

// Jobs maps records to job listings, discarding any whose sourceUrl is
// missing or not an http(s) link.
func Jobs(records []map[string]any) []models.JobListing {
	out := make([]models.JobListing, 0, len(records))
	for _, r := range records {
		var job models.JobListing
		if err := decode(r, &job); err != nil {
			zap.L().Debug("mapper: partial job decode", zap.Error(err))
		}
		job, err := Job(job)
		if err != nil {
			zap.L().Debug("mapper: dropping job without usable link",
				zap.String("title", job.Title),
				zap.String("source_url", job.SourceURL),
			)
			metrics.RecordsDropped.WithLabelValues("job", "source_url").Inc()
			continue
		}
		out = append(out, job)
	}
	return out
}

// Job completes a typed job record. It fails with ErrInvalidJobLink when
// the sourceUrl is not an http(s) link.
func Job(j models.JobListing) (models.JobListing, error) {
	j.SourceURL = strings.TrimSpace(j.SourceURL)
	if err := validate.Struct(j); err != nil {
		return j, eris.Wrapf(ErrInvalidJobLink, "%q", j.SourceURL)
	}
	j.ID = strings.TrimSpace(j.ID)
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	j.EstimatedBudget = clean(j.EstimatedBudget)
	j.Source = canonical(j.Source, models.JobSources, models.JobSourceOther)
	j.Type = canonical(j.Type, models.JobTypes, "")
	return j, nil
}

// canonical returns the allowed value matching v, ignoring case, spaces,
// dashes and underscores. Unmatched values yield fallback.
func canonical(v string, allowed []string, fallback string) string {
	key := squash(v)
	if key == "" {
		return fallback
	}
	for _, a := range allowed {
		if squash(a) == key {
			return a
		}
	}
	return fallback
}

func squash(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

func decode(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(lenientNumber, lenientBool),
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// lenientNumber accepts "$1,200,000", "450k" or "2.5M" for numeric fields.
// Text that still does not parse decodes as zero.
func lenientNumber(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Float64 {
		return data, nil
	}
	return ParseAmount(data.(string)), nil
}

func lenientBool(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(strings.TrimSpace(data.(string))) {
	case "true", "yes", "y", "1":
		return true, nil
	}
	return false, nil
}

// ParseAmount parses a loosely formatted money amount.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	mult := 1.0
	if n := len(s); n > 0 {
		switch s[n-1] {
		case 'k', 'K':
			mult, s = 1e3, s[:n-1]
		case 'm', 'M':
			mult, s = 1e6, s[:n-1]
		case 'b', 'B':
			mult, s = 1e9, s[:n-1]
		}
	}
	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f * mult
}
