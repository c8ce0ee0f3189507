package screens

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func validateRequired(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func validateIntRange(min, max int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		if n < min || n > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	}
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("must be a number")
	}
	return f, nil
}

func validateFloat(s string) error {
	_, err := parseFinite(s)
	return err
}

func validatePositiveFloat(s string) error {
	f, err := parseFinite(s)
	if err != nil {
		return err
	}
	if f <= 0 {
		return fmt.Errorf("must be greater than 0")
	}
	return nil
}
