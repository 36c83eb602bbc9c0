// Package modeldto provides models for data transfer objects.

package modeldto

import "time"

type (
	RequestToken struct {
		Scopes []string `json:"scopes" example:"chat,voip"`
	}

	ResponseToken struct {
		UserID          string    `json:"user_id" example:"alice"`
		CommunicationID string    `json:"communication_id" example:"8:acs:57b9bac9-df6c-4d39-a73b-26e944adf6ea_9b0110-08007f1041"`
		Token           string    `json:"token"`
		ExpiresOn       time.Time `json:"expires_on" example:"2030-01-02T03:04:05Z"`
		Scopes          []string  `json:"scopes" example:"chat"`
	}
)
