package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidContentID is returned when a value cannot be read as a content id
var ErrInvalidContentID = errors.New("invalid content id")

// ContentID is the logical id of a piece of registry content, kept as a canonical base 10 string
// so that ids read from the registry and ids echoed back in token metadata compare equal.
type ContentID string

// NewContentID returns the canonical form of i
func NewContentID(i *big.Int) ContentID {
	if i == nil {
		return ContentID("0")
	}
	return ContentID(i.String())
}

func (c ContentID) String() string {
	return string(c)
}

// BigInt returns the content id as a big.Int, or nil if it is not numeric
func (c ContentID) BigInt() *big.Int {
	i, ok := new(big.Int).SetString(string(c), 10)
	if !ok {
		return nil
	}
	return i
}

// UnmarshalJSON accepts every shape a content id shows up in: a JSON number, a decimal or hex
// string, or a serialized BigNumber object.
func (c *ContentID) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return err
	}
	id, err := ParseContentID(v)
	if err != nil {
		return err
	}
	*c = id
	return nil
}

// ParseContentID converts a decoded JSON value into a canonical ContentID
func ParseContentID(v interface{}) (ContentID, error) {
	switch t := v.(type) {
	case ContentID:
		return t, nil
	case *big.Int:
		if t == nil || t.Sign() < 0 {
			break
		}
		return NewContentID(t), nil
	case json.Number:
		return parseNumericString(t.String())
	case string:
		return parseNumericString(t)
	case float64:
		if t < 0 || t != float64(int64(t)) {
			break
		}
		return ContentID(fmt.Sprintf("%d", int64(t))), nil
	case int:
		if t < 0 {
			break
		}
		return ContentID(fmt.Sprintf("%d", t)), nil
	case int64:
		if t < 0 {
			break
		}
		return ContentID(fmt.Sprintf("%d", t)), nil
	case uint64:
		return ContentID(fmt.Sprintf("%d", t)), nil
	case map[string]interface{}:
		// ethers serializes BigNumbers as {"type":"BigNumber","hex":"0x.."} or {"_hex":"0x.."}
		for _, key := range []string{"hex", "_hex"} {
			if h, ok := t[key].(string); ok {
				return parseNumericString(h)
			}
		}
	}
	return "", fmt.Errorf("%w: %v", ErrInvalidContentID, v)
}

func parseNumericString(s string) (ContentID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidContentID
	}

	var (
		i  *big.Int
		ok bool
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		i, ok = new(big.Int).SetString(s[2:], 16)
	} else if r, isRat := new(big.Rat).SetString(s); isRat && r.IsInt() {
		// covers "1", "1.0" and "1e3"
		i, ok = r.Num(), true
	}

	if !ok || i.Sign() < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidContentID, s)
	}
	return NewContentID(i), nil
}

// ContentSet is a set of content ids
type ContentSet map[ContentID]struct{}

// NewContentSet returns a set holding ids
func NewContentSet(ids ...ContentID) ContentSet {
	s := make(ContentSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s ContentSet) Has(id ContentID) bool {
	_, ok := s[id]
	return ok
}

func (s ContentSet) Add(id ContentID) {
	s[id] = struct{}{}
}

// Clone returns a copy that can be modified without affecting s
func (s ContentSet) Clone() ContentSet {
	c := make(ContentSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}
