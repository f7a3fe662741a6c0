package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Configuration & Environment Errors
var (
	ErrConfigInvalid       = errors.New("configuration invalid")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

// NewConfigError reports a config value that is present but unusable
func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("Invalid configuration: %s", configName),
		Cause:      cause,
		Field:      configName,
	}
}

// NewEnvironmentVariableError reports a required setting that is unset
func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrEnvironmentVariable,
		Details:    fmt.Sprintf("Missing or invalid environment variable: %s", varName),
		Field:      varName,
	}
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}

func IsEnvironmentVariableError(err error) bool {
	return errors.Is(err, ErrEnvironmentVariable)
}
