// SPDX-License-Identifier: MIT

package align

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/lamesync/internal/lamedb"
)

func TestPiconName(t *testing.T) {
	tests := []struct {
		name string
		svc  lamedb.Service
		want string
	}{
		{
			name: "hd_service",
			svc:  lamedb.Service{Type: "19", ServiceID: "0070", StreamID: "0013", NetworkID: "01680000", Namespace: "0795"},
			want: "1_0_13_70_13_1680000_795_0_0_0.png",
		},
		{
			name: "sd_service_lowercase_hex_ids",
			svc:  lamedb.Service{Type: "1", ServiceID: "132f", StreamID: "03ef", NetworkID: "0001", Namespace: "00c00000"},
			want: "1_0_1_132F_3EF_1_C00000_0_0_0.png",
		},
		{
			name: "all_zero_keeps_one_digit",
			svc:  lamedb.Service{Type: "25", ServiceID: "0000", StreamID: "0", NetworkID: "00", Namespace: "0000"},
			want: "1_0_19_0_0_0_0_0_0_0.png",
		},
		{
			name: "type_two_hex_digits",
			svc:  lamedb.Service{Type: "31", ServiceID: "a", StreamID: "b", NetworkID: "c", Namespace: "d"},
			want: "1_0_1f_A_B_C_D_0_0_0.png",
		},
		{
			name: "type_over_255",
			svc:  lamedb.Service{Type: "300", ServiceID: "a", StreamID: "b", NetworkID: "c", Namespace: "d"},
			want: "1_0_12c_A_B_C_D_0_0_0.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PiconName(tt.svc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPiconName_InvalidField(t *testing.T) {
	tests := []struct {
		name  string
		svc   lamedb.Service
		field string
	}{
		{name: "empty_service_id", svc: lamedb.Service{Type: "1", ServiceID: " ", StreamID: "1", NetworkID: "1", Namespace: "1"}, field: "serviceId"},
		{name: "empty_namespace", svc: lamedb.Service{Type: "1", ServiceID: "1", StreamID: "1", NetworkID: "1"}, field: "namespace"},
		{name: "empty_type", svc: lamedb.Service{ServiceID: "1", StreamID: "1", NetworkID: "1", Namespace: "1"}, field: "type"},
		{name: "non_decimal_type", svc: lamedb.Service{Type: "x1", ServiceID: "1", StreamID: "1", NetworkID: "1", Namespace: "1"}, field: "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PiconName(tt.svc)
			var fe *InvalidServiceFieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}
