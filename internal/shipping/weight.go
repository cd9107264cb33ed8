package shipping

// BillableKg maps an actual parcel weight in grams to the whole-kilogram
// weight couriers bill for. Buckets are 1000g wide with the boundary 250g
// past each kilogram mark: up to 1250g bills as 1kg, 1251-2250g as 2kg, and
// so on. The grace band absorbs packaging noise around round kilograms so
// nearly identical parcels never bill, or cache, differently.
func BillableKg(weightGrams int) int {
	kg := (weightGrams - 250 + 999) / 1000
	if kg < 1 {
		return 1
	}
	return kg
}

// BillableGrams is the billable bucket re-expressed in grams, always a
// multiple of 1000. This is the value sent upstream and embedded in cache
// keys.
func BillableGrams(weightGrams int) int {
	return BillableKg(weightGrams) * 1000
}
