package dto

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Number accepts a JSON number or a numeric string, the way browser
// forms tend to send them. The raw text is kept until the handler asks
// for a float or an int.
type Number struct {
	raw    string
	set    bool
	quoted bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("number: %w", err)
		}
		*n = Number{raw: s, set: true, quoted: true}
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("number: %w", err)
	}
	*n = Number{raw: num.String(), set: true}
	return nil
}

// Set reports whether the field was present and not null or blank.
func (n Number) Set() bool {
	return n.set && strings.TrimSpace(n.raw) != ""
}

func (n Number) String() string { return n.raw }

func (n Number) Float() (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(n.raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a number: %q", n.raw)
	}
	return v, nil
}

// Int parses an integer. Strings must hold an integer literal; JSON
// numbers with a fraction are truncated.
func (n Number) Int() (int, error) {
	s := strings.TrimSpace(n.raw)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	if n.quoted {
		return 0, fmt.Errorf("not an integer: %q", n.raw)
	}

	f, err := n.Float()
	if err != nil {
		return 0, err
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("integer out of range: %q", n.raw)
	}
	return int(f), nil
}
