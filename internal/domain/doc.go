// Package domain models cold-chain telemetry: customers own facilities,
// facilities own storage units, and each unit produces temperature readings.
//
// # Codes
//
// Human-facing identifiers follow fixed patterns and are checked by
// [ValidateCustomerCode], [ValidateFacilityCode] and [ValidateUnitCode]:
//
//	customer:  "A"               one uppercase letter
//	facility:  "facility_A_12"   facility_<customer>_<n>
//	unit:      "unit_A_1_2"      unit_<customer>_<facility n>_<unit n>
//
// # Units
//
// Temperatures are stored in the unit the sensor reported (C, F or K) and
// converted on the way out through Celsius:
//
//	F -> C: (v - 32) * 5/9      C -> F: v * 9/5 + 32
//	K -> C: v - 273.15          C -> K: v + 273.15
//
// Areas are sqm/m2 or sqft/ft2 (1 sqft = 0.092903 sqm). Unknown units of
// either kind fail with [ErrUnsupportedUnit].
//
// # Equipment failure
//
// A reading with no temperature, or with status "failure", is an equipment
// failure reading. The two conditions are OR-ed: a "normal" reading with no
// value still counts, which surfaces inconsistent sensor data instead of
// hiding it.
//
// # Construction
//
// Entities are built by NewX constructors that either return a fully valid
// value or a *Error of kind [KindValidation]. Values are never mutated in
// place; helpers such as [TemperatureReading.ConvertedTo] return copies.
// Rows loaded from storage are trusted and scanned directly.
package domain
