package shipping

import "fmt"

// RateKey builds the cache key for one shipping-rate lookup:
// <origin>_<destination>_<billable grams>_<courier>. The weight segment is
// the billable bucket, so any two weights that bill the same produce the
// same key. That equality is what keeps quoted prices stable under caching.
func RateKey(origin, destination string, weightGrams int, courier string) string {
	return fmt.Sprintf("%s_%s_%d_%s", origin, destination, BillableGrams(weightGrams), courier)
}
