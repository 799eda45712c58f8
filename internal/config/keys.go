package config

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ErrUnknownKey is returned by Get and Set for keys outside the schema.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return fmt.Sprintf("unknown config key %q", e.Key)
}

// Keys returns the dotted config keys in sorted order.
func Keys() []string {
	keys := []string{
		"api.base_url", "api.timeout",
		"pagination.page_size", "pagination.threshold", "pagination.mode",
		"logging.level", "logging.format", "logging.file",
	}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of a dotted key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api.base_url":
		return c.API.BaseURL, nil
	case "api.timeout":
		return c.API.Timeout.String(), nil
	case "pagination.page_size":
		return strconv.Itoa(c.Pagination.PageSize), nil
	case "pagination.threshold":
		return strconv.FormatFloat(c.Pagination.Threshold, 'g', -1, 64), nil
	case "pagination.mode":
		return c.Pagination.Mode, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	default:
		return "", ErrUnknownKey{Key: key}
	}
}

// Set parses value into the dotted key. The result is not validated.
//
//nolint:cyclop // One branch per schema key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api.base_url":
		c.API.BaseURL = value
	case "api.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
		c.API.Timeout = d
	case "pagination.page_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("pagination.page_size: %w", err)
		}
		c.Pagination.PageSize = n
	case "pagination.threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("pagination.threshold: %w", err)
		}
		c.Pagination.Threshold = f
	case "pagination.mode":
		c.Pagination.Mode = value
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "logging.file":
		c.Logging.File = value
	default:
		return ErrUnknownKey{Key: key}
	}
	return nil
}
