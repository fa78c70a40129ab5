package log

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgressIndicatorModes(t *testing.T) {
	for _, mode := range []Mode{ModeBar, ModePlain, ModeJSON} {
		t.Run(string(mode), func(t *testing.T) {
			require.NotPanics(t, func() {
				pi := NewProgressIndicator("test sweep", 10, mode)
				for i := 1; i <= 10; i++ {
					pi.Update(i)
				}
				pi.Finish()
			})
		})
	}
}

func TestProgressIndicatorZeroTotal(t *testing.T) {
	require.NotPanics(t, func() {
		pi := NewProgressIndicator("empty", 0, ModePlain)
		pi.Finish()
	})
}
