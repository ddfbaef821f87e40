// SPDX-License-Identifier: MIT

package align

import (
	"strconv"
	"strings"

	"github.com/ManuGH/lamesync/internal/lamedb"
)

// PiconName derives the file name a receiver uses to find a service's icon:
//
//	1_0_<type hex>_<sid>_<tsid>_<onid>_<namespace>_0_0_0.png
//
// Identifiers lose their leading zeros (one digit is always kept) and are
// upper-cased.
func PiconName(s lamedb.Service) (string, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"type", s.Type},
		{"serviceId", s.ServiceID},
		{"streamId", s.StreamID},
		{"networkId", s.NetworkID},
		{"namespace", s.Namespace},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return "", &InvalidServiceFieldError{Field: f.name, Value: f.value, Service: s.Key()}
		}
	}

	typ, err := strconv.ParseUint(strings.TrimSpace(s.Type), 10, 32)
	if err != nil {
		return "", &InvalidServiceFieldError{Field: "type", Value: s.Type, Service: s.Key(), Err: err}
	}

	parts := []string{
		"1", "0",
		strconv.FormatUint(typ, 16),
		cutZeros(s.ServiceID),
		cutZeros(s.StreamID),
		cutZeros(s.NetworkID),
		cutZeros(s.Namespace),
		"0", "0", "0",
	}
	return strings.Join(parts, "_") + ".png", nil
}

func cutZeros(v string) string {
	v = strings.TrimSpace(v)
	i := 0
	for i < len(v)-1 && v[i] == '0' {
		i++
	}
	return strings.ToUpper(v[i:])
}
