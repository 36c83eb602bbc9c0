package chat

import (
	"testing"
	"time"

	chatsdk "acs-toolkit/internal/communication/chat"
	"acs-toolkit/internal/constants"

	"github.com/stretchr/testify/assert"
)

func TestParseMembers(t *testing.T) {
	members := parseMembers([]string{
		"8:acs:1111=Alice Smith",
		" 8:acs:2222 ",
		"",
		"=nobody",
	})
	assert.Equal(t, []chatsdk.ChatThreadMember{
		{ID: "8:acs:1111", DisplayName: "Alice Smith"},
		{ID: "8:acs:2222"},
	}, members)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, constants.NA, formatTime(nil))
	at := time.Date(2024, time.May, 6, 7, 8, 9, 0, time.UTC)
	assert.Equal(t, "2024-05-06T07:08:09Z", formatTime(&at))
}
