package tui

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgmodel "github.com/goliatone/go-loanform/pkg/model"
)

type validationRules struct {
	required bool
	min      *decimal.Decimal
	max      *decimal.Decimal
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
}

func collectValidationRules(field pkgmodel.Field, cache map[string]validationRules) validationRules {
	if rules, ok := cache[field.Name]; ok {
		return rules
	}
	rules := validationRules{required: field.Required}
	for _, v := range field.Validations {
		switch v.Kind {
		case pkgmodel.ValidationRuleMin:
			if val, err := decimal.NewFromString(v.Params["value"]); err == nil {
				rules.min = &val
			}
		case pkgmodel.ValidationRuleMax:
			if val, err := decimal.NewFromString(v.Params["value"]); err == nil {
				rules.max = &val
			}
		case pkgmodel.ValidationRuleMinLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.minLen = &val
			}
		case pkgmodel.ValidationRuleMaxLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.maxLen = &val
			}
		case pkgmodel.ValidationRulePattern:
			if expr := v.Params["pattern"]; expr != "" {
				if re, err := regexp.Compile(expr); err == nil {
					rules.pattern = re
				}
			}
		}
	}
	cache[field.Name] = rules
	return rules
}

func (r validationRules) validateString(value string) error {
	if r.required && strings.TrimSpace(value) == "" {
		return errors.New("required")
	}
	if r.minLen != nil && len(value) < *r.minLen {
		return fmt.Errorf("min length %d", *r.minLen)
	}
	if r.maxLen != nil && len(value) > *r.maxLen {
		return fmt.Errorf("max length %d", *r.maxLen)
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		return errors.New("does not match required pattern")
	}
	return nil
}

// validateNumber checks raw against the bounds without converting through
// float64, so money keeps its exact digits.
func (r validationRules) validateNumber(raw string, integer bool) error {
	var n decimal.Decimal
	if integer {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("expected a whole number")
		}
		n = decimal.NewFromInt(int64(v))
	} else {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return errors.New("expected a number")
		}
		n = v
	}
	if r.min != nil && n.LessThan(*r.min) {
		return fmt.Errorf("min %s", r.min.String())
	}
	if r.max != nil && n.GreaterThan(*r.max) {
		return fmt.Errorf("max %s", r.max.String())
	}
	return nil
}

func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	return val, err == nil
}
