package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// EnvPrefix namespaces every variable; the unprefixed name is accepted as a fallback.
const EnvPrefix = "CERTDESK_"

// lookupEnv prefers CERTDESK_<key> over <key>
func lookupEnv(key string) (string, bool) {
	if value, ok := os.LookupEnv(EnvPrefix + key); ok {
		return value, true
	}
	return os.LookupEnv(key)
}

// applyEnv walks through struct fields to override config with env vars
func applyEnv(s interface{}) error {
	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnv(field.Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}
		envValue, exists := lookupEnv(envTag)
		if !exists {
			continue
		}

		if err := setFieldFromEnv(field, envValue); err != nil {
			return fmt.Errorf("failed to set field %s from env var %s: %w", fieldType.Name, envTag, err)
		}
	}

	return nil
}

var aliasMapType = reflect.TypeOf(map[string][]string{})

// setFieldFromEnv sets a field value from an environment variable string
func setFieldFromEnv(field reflect.Value, value string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer format: %w", err)
		}
		field.SetInt(intValue)

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid boolean format: %w", err)
		}
		field.SetBool(boolValue)

	case reflect.Map:
		if field.Type() != aliasMapType {
			return fmt.Errorf("unsupported map type: %s", field.Type())
		}
		aliases, err := parseAliasList(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(aliases))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// parseAliasList reads "field=Header A|Header B;other=Header C"
func parseAliasList(value string) (map[string][]string, error) {
	aliases := map[string][]string{}
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, headers, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid alias entry %q, want field=Header|Header", entry)
		}
		for _, h := range strings.Split(headers, "|") {
			if h = strings.TrimSpace(h); h != "" {
				aliases[name] = append(aliases[name], h)
			}
		}
	}
	return aliases, nil
}
