package bcset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrientationRoundTripIsIdentity(t *testing.T) {
	sizes := []struct{ len1, len2 int }{
		{1, 1}, {1, 3}, {3, 1}, {4, 5}, {5, 4}, {7, 7},
	}
	for code := Orient1; code <= Orient8; code++ {
		for _, sz := range sizes {
			fwd, err := code.Map(sz.len1, sz.len2)
			require.NoError(t, err)
			recvLen1, recvLen2 := code.ReceiverLens(sz.len1, sz.len2)

			inv := code.Inverse()
			bwd, err := inv.Map(recvLen1, recvLen2)
			require.NoError(t, err)

			for d1 := 0; d1 < sz.len1; d1++ {
				for d2 := 0; d2 < sz.len2; d2++ {
					r1, r2 := fwd(d1, d2)
					require.True(t, r1 >= 0 && r1 < recvLen1, "code %d r1 out of range", code)
					require.True(t, r2 >= 0 && r2 < recvLen2, "code %d r2 out of range", code)
					b1, b2 := bwd(r1, r2)
					require.Equal(t, d1, b1, "code %d round trip d1 mismatch", code)
					require.Equal(t, d2, b2, "code %d round trip d2 mismatch", code)
				}
			}
		}
	}
}

func TestInvalidOrientationRejected(t *testing.T) {
	_, err := Orientation(0).Map(2, 2)
	require.Error(t, err)
	_, err = Orientation(9).Map(2, 2)
	require.Error(t, err)
}
