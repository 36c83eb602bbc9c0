// Package constants provides constants.

package constants

const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"

	HandlerKey = "handler"

	NA = "NA"
)

var ValidDeliveryStatuses = []string{
	DeliveryStatusSent,
	DeliveryStatusFailed}
