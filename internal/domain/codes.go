package domain

import "regexp"

var (
	// customerCodeRe matches a single uppercase letter, e.g. "A".
	customerCodeRe = regexp.MustCompile(`^[A-Z]$`)

	// facilityCodeRe matches "facility_<CUSTOMER>_<n>", e.g. "facility_A_12".
	facilityCodeRe = regexp.MustCompile(`^facility_[A-Z]_\d+$`)

	// unitCodeRe matches "unit_<CUSTOMER>_<facility n>_<unit n>", e.g. "unit_A_1_2".
	unitCodeRe = regexp.MustCompile(`^unit_[A-Z]_\d+_\d+$`)
)

func ValidateCustomerCode(code string) bool { return customerCodeRe.MatchString(code) }

func ValidateFacilityCode(code string) bool { return facilityCodeRe.MatchString(code) }

func ValidateUnitCode(code string) bool { return unitCodeRe.MatchString(code) }
