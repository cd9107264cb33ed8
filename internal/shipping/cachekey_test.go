package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateKeyScenario(t *testing.T) {
	t.Parallel()

	// 1200g is inside the first bucket, 1300g inside the second; the keys
	// must differ so the two weights are allowed to price differently.
	assert.Equal(t, "607_114_1000_jne", RateKey("607", "114", 1200, "jne"))
	assert.Equal(t, "607_114_2000_jne", RateKey("607", "114", 1300, "jne"))

	// 1000g shares the 1200g bucket and therefore its key.
	assert.Equal(t, RateKey("607", "114", 1200, "jne"), RateKey("607", "114", 1000, "jne"))
}

func TestRateKeyEquivalenceFollowsBuckets(t *testing.T) {
	t.Parallel()

	// For any pair of weights, key equality must track bucket equality.
	weights := []int{1, 250, 251, 999, 1000, 1249, 1250, 1251, 2250, 2251, 5000}
	for _, w1 := range weights {
		for _, w2 := range weights {
			sameBucket := BillableKg(w1) == BillableKg(w2)
			sameKey := RateKey("607", "114", w1, "jne") == RateKey("607", "114", w2, "jne")
			if sameBucket != sameKey {
				t.Fatalf("weights %d and %d: sameBucket=%v but sameKey=%v", w1, w2, sameBucket, sameKey)
			}
		}
	}
}

func TestRateKeyDistinguishesRouteAndCourier(t *testing.T) {
	t.Parallel()

	base := RateKey("607", "114", 1000, "jne")
	assert.NotEqual(t, base, RateKey("608", "114", 1000, "jne"))
	assert.NotEqual(t, base, RateKey("607", "115", 1000, "jne"))
	assert.NotEqual(t, base, RateKey("607", "114", 1000, "sicepat"))
}
