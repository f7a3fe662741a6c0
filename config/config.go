package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-tracker-backend/errs"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// GetString returns the value for key, or defaultValue when the key is unset or empty
func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

// GetInt returns the integer value for key, or defaultValue when the key is unset or empty.
// A value that is not an integer is a config error rather than a silent fallback.
func GetInt(config map[string]string, key string, defaultValue int) (int, error) {
	s := strings.TrimSpace(GetString(config, key, ""))
	if s == "" {
		return defaultValue, nil
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue, errs.NewConfigError(key, err)
	}

	return asInt, nil
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}

	return asBool
}

// GetList splits a comma separated value, trimming entries and dropping empty ones
func GetList(config map[string]string, key string, defaultValue []string) []string {
	raw := GetString(config, key, "")
	if raw == "" {
		return defaultValue
	}

	var list []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
