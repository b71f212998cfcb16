package nft

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/superpiccell/spen-minter/service/persist"
)

// ErrMetadataParse is returned when a content payload or token URI is not valid JSON
var ErrMetadataParse = errors.New("metadata parse error")

const (
	fallbackName        = "No Name"
	fallbackDescription = "No Description"
	fallbackImage       = "No Image"
)

var (
	wordStart      = regexp.MustCompile(`\b\w`)
	reservedFields = map[string]bool{"name": true, "description": true, "image": true}
)

// BuildMetadata turns a content item into the metadata document minted with it. name, description
// and image are copied with fallbacks; every other key of the payload becomes an attribute.
func BuildMetadata(item persist.ContentItem) (persist.NFTMetadata, error) {
	keys, values, err := decodeOrderedObject(item.Content)
	if err != nil {
		return persist.NFTMetadata{}, fmt.Errorf("%w: content %s: %s", ErrMetadataParse, item.ID, err)
	}

	md := persist.NFTMetadata{
		Name:        orDefault(values["name"], fallbackName),
		Description: orDefault(values["description"], fallbackDescription),
		Image:       orDefault(values["image"], fallbackImage),
		Attributes:  make([]persist.Attribute, 0, len(keys)),
		ContentID:   item.ID,
	}

	for _, key := range keys {
		if reservedFields[key] {
			continue
		}
		md.Attributes = append(md.Attributes, persist.Attribute{
			TraitType: TraitType(key),
			Value:     stringOrEmpty(values[key]),
		})
	}

	return md, nil
}

// MarshalMetadata serializes metadata the way it is stored on chain, without HTML escaping
func MarshalMetadata(md persist.NFTMetadata) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(md); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// TraitType converts a snake_case key to Title Case
func TraitType(key string) string {
	return wordStart.ReplaceAllStringFunc(strings.ReplaceAll(key, "_", " "), strings.ToUpper)
}

// DisplayFields returns the payload's fields in key order, without the image, for rendering a
// content card. Empty values render as "-".
func DisplayFields(content string) ([]persist.Attribute, string, error) {
	keys, values, err := decodeOrderedObject(content)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrMetadataParse, err)
	}
	fields := make([]persist.Attribute, 0, len(keys))
	for _, key := range keys {
		if key == "image" {
			continue
		}
		fields = append(fields, persist.Attribute{TraitType: key, Value: orDefault(values[key], "-")})
	}
	return fields, stringOrEmpty(values["image"]), nil
}

// decodeOrderedObject decodes a JSON object and returns its keys in property order: integer
// keys ascending first, then the remaining keys in the order they first appear. A null or
// non-object document has no keys.
func decodeOrderedObject(s string) ([]string, map[string]interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, err
	}
	if dec.More() {
		return nil, nil, errors.New("unexpected data after top-level value")
	}

	values, ok := doc.(map[string]interface{})
	if !ok {
		return nil, map[string]interface{}{}, nil
	}

	dec = json.NewDecoder(strings.NewReader(s))
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}

	seen := make(map[string]bool, len(values))
	var indexKeys, keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, nil, err
		}

		if seen[key] {
			continue
		}
		seen[key] = true
		if isArrayIndex(key) {
			indexKeys = append(indexKeys, key)
		} else {
			keys = append(keys, key)
		}
	}

	sort.Slice(indexKeys, func(i, j int) bool {
		a, _ := strconv.ParseUint(indexKeys[i], 10, 32)
		b, _ := strconv.ParseUint(indexKeys[j], 10, 32)
		return a < b
	})

	return append(indexKeys, keys...), values, nil
}

func isArrayIndex(key string) bool {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	return err == nil && n < math.MaxUint32
}

func orDefault(v interface{}, fallback string) string {
	if isFalsy(v) {
		return fallback
	}
	return toString(v)
}

func stringOrEmpty(v interface{}) string {
	if isFalsy(v) {
		return ""
	}
	return toString(v)
}

func isFalsy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && (f == 0 || math.IsNaN(f))
	}
	return false
}

// toString renders a decoded JSON value as text: numbers in shortest form, arrays joined with
// commas and objects as "[object Object]".
func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return formatNumber(f)
	case []interface{}:
		parts := make([]string, len(t))
		for i, e := range t {
			if e != nil {
				parts[i] = toString(e)
			}
		}
		return strings.Join(parts, ",")
	case map[string]interface{}:
		return "[object Object]"
	}
	return fmt.Sprint(v)
}

func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go pads the exponent to two digits
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
