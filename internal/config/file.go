package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/taboola/cassandra-count/types"
)

// ReadFile reads a configuration file into key/value pairs.
//
// Keys are returned as written, minus any leading "-".
//
// Parameters:
//   - path: File to read; .yaml and .yml files are parsed as YAML
//
// Returns:
//   - map[string]string: The entries of the file
//   - error: A configuration error if the file cannot be read or parsed
func ReadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewConfigurationError("read config file", err)
	}

	var entries map[string]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		entries, err = parseYAML(data)
	default:
		entries, err = parseColumns(data)
	}
	if err != nil {
		return nil, types.NewConfigurationError("parse config file "+path, err)
	}

	return entries, nil
}

func parseYAML(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	entries := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			return nil, fmt.Errorf("key %q has no value", key)
		case []any:
			parts := make([]string, len(v))
			for i, item := range v {
				parts[i] = fmt.Sprint(item)
			}
			entries[strings.TrimLeft(key, "-")] = strings.Join(parts, ",")
		case map[string]any:
			return nil, fmt.Errorf("key %q: nested maps are not supported", key)
		default:
			entries[strings.TrimLeft(key, "-")] = fmt.Sprint(v)
		}
	}

	return entries, nil
}

func parseColumns(data []byte) (map[string]string, error) {
	entries := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected \"key value\", got %q", lineNo, line)
		}
		entries[strings.TrimLeft(fields[0], "-")] = strings.Join(fields[1:], " ")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Apply sets every flag named in entries that was not given on the command line.
//
// Parameters:
//   - fs: Flag set the options were registered on, already parsed
//   - entries: Key/value pairs, usually from ReadFile
//
// Returns:
//   - error: A configuration error naming every unknown key or invalid value
func Apply(fs *pflag.FlagSet, entries map[string]string) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var errs []error
	for _, key := range keys {
		flag := fs.Lookup(key)
		switch {
		case flag == nil:
			errs = append(errs, fmt.Errorf("unknown key %q", key))
		case flag.Name == FlagConfigFile:
			errs = append(errs, fmt.Errorf("key %q cannot be set from a config file", key))
		case flag.Changed:
			// explicit flags win
		default:
			if err := fs.Set(flag.Name, entries[key]); err != nil {
				errs = append(errs, fmt.Errorf("key %q: %w", key, err))
			}
		}
	}

	if len(errs) > 0 {
		return types.NewConfigurationError("apply config file", errors.Join(errs...))
	}

	return nil
}

// Load applies the configuration file named by --config-file, if any, and validates the
// resulting options.
func (o *Options) Load(fs *pflag.FlagSet) error {
	if o.ConfigFile != "" {
		entries, err := ReadFile(o.ConfigFile)
		if err != nil {
			return err
		}
		if err := Apply(fs, entries); err != nil {
			return err
		}
	}

	return o.Validate()
}
