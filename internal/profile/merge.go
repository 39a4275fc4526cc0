// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package profile

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// mergeWithDefaults combines saved profile JSON with the factory defaults.
// User values win key by key, but only when their JSON type matches the
// default's type; mismatched values are logged and replaced by the default
// so one bad key never corrupts the rest of the profile.
func mergeWithDefaults(data []byte, logger *slog.Logger) (*Profile, error) {
	var user map[string]any
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}

	defaults, err := toMap(Default())
	if err != nil {
		return nil, err
	}

	merged := mergeMap("", defaults, user, logger)

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged profile: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode merged profile: %w", err)
	}

	return &profile, nil
}

// toMap converts a profile to its generic JSON representation.
func toMap(p *Profile) (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode defaults: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode defaults: %w", err)
	}

	return m, nil
}

// mergeValue picks the user value when its type matches the default's,
// recursing into objects. A type mismatch falls back to the default.
func mergeValue(path string, def, user any, logger *slog.Logger) any {
	if kindOf(def) != kindOf(user) {
		logger.Warn("ignoring saved value with wrong type",
			"key", path,
			"expected", kindOf(def),
			"got", kindOf(user),
		)
		return def
	}

	defMap, defOK := def.(map[string]any)
	userMap, userOK := user.(map[string]any)
	if defOK && userOK {
		return mergeMap(path, defMap, userMap, logger)
	}

	return user
}

// mergeMap merges a user object over a default object. Every default key
// resolves to a value. Extra user keys are kept when the default object is
// homogeneous (expense categories, debts) and the value matches the element
// type; otherwise they are dropped.
func mergeMap(path string, defMap, userMap map[string]any, logger *slog.Logger) map[string]any {
	result := make(map[string]any, len(defMap))

	for key, defVal := range defMap {
		userVal, present := userMap[key]
		if !present {
			result[key] = defVal
			continue
		}
		result[key] = mergeValue(childPath(path, key), defVal, userVal, logger)
	}

	exemplar, homogeneous := elementExemplar(defMap)
	for key, userVal := range userMap {
		if _, known := defMap[key]; known {
			continue
		}
		if !homogeneous {
			continue
		}
		if !kindMatches(exemplar, userVal) {
			logger.Warn("ignoring saved value with wrong type",
				"key", childPath(path, key),
				"expected", kindOf(exemplar),
				"got", kindOf(userVal),
			)
			continue
		}
		result[key] = userVal
	}

	return result
}

// elementExemplar returns a representative element of a map whose values all
// share one JSON type, such as the expenses or debts maps.
func elementExemplar(m map[string]any) (any, bool) {
	var exemplar any
	first := true

	for _, v := range m {
		if first {
			exemplar = v
			first = false
			continue
		}
		if kindOf(v) != kindOf(exemplar) {
			return nil, false
		}
	}

	if first {
		return nil, false
	}
	return exemplar, true
}

// kindMatches reports whether a user value structurally matches an exemplar,
// checking object fields recursively.
func kindMatches(exemplar, user any) bool {
	if kindOf(exemplar) != kindOf(user) {
		return false
	}

	exMap, exOK := exemplar.(map[string]any)
	userMap, userOK := user.(map[string]any)
	if exOK && userOK {
		for key, userVal := range userMap {
			exVal, known := exMap[key]
			if !known {
				continue
			}
			if !kindMatches(exVal, userVal) {
				return false
			}
		}
	}

	return true
}

// kindOf names the JSON type of a decoded value.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

// childPath joins a parent path and key with a dot.
func childPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
