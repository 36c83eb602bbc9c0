package identity

import (
	"time"

	"acs-toolkit/internal/constants"
)

const commandTimeout = 60 * time.Second

func orNA(value string) string {
	if value == "" {
		return constants.NA
	}
	return value
}
