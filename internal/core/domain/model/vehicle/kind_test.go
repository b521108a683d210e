package vehicle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet/internal/core/domain/model/vehicle"
)

func TestKindFromString(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    vehicle.Kind
		wantErr bool
	}{
		{name: "car", value: "car", want: vehicle.KindCar},
		{name: "van", value: "van", want: vehicle.KindVan},
		{name: "truck", value: "truck", want: vehicle.KindTruck},
		{name: "motorcycle", value: "motorcycle", want: vehicle.KindMotorcycle},
		{name: "unknown name", value: "bicycle", wantErr: true},
		{name: "empty string", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := vehicle.KindFromString(tt.value)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, vehicle.KindUnknown, kind)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, kind)
				assert.Equal(t, tt.value, kind.String())
				assert.NoError(t, kind.Validate())
			}
		})
	}
}

func TestKind_Validate(t *testing.T) {
	assert.Error(t, vehicle.KindUnknown.Validate())
	assert.Error(t, vehicle.Kind(42).Validate())
	assert.NoError(t, vehicle.KindTruck.Validate())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "unknown", vehicle.KindUnknown.String())
	assert.Equal(t, "unknown", vehicle.Kind(42).String())
}
