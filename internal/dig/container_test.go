package dig

import (
	"testing"

	"acs-toolkit/internal/command"
	"acs-toolkit/internal/syncutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerResolvesEveryCommand(t *testing.T) {
	kernel := NewKernel()
	require.NoError(t, kernel.Build())

	names := make(map[string]bool)
	err := kernel.Container.Invoke(func(commands []command.Command, syncUtils *syncutils.SyncUtils) {
		defer func() {
			syncUtils.SyncCancel()
			syncUtils.Wg.Wait()
		}()
		for _, c := range commands {
			names[c.Describe().Name] = true
		}
	})
	require.NoError(t, err)

	for _, name := range []string{
		"http:serve", "storage:migrate", "storage:reset",
		"identity:create", "identity:delete", "identity:token", "identity:revoke", "identity:all",
		"chat:thread:create", "chat:thread:get", "chat:thread:list", "chat:thread:delete",
		"chat:message:send", "chat:message:list", "chat:member:list", "chat:member:add", "chat:export",
		"resource:list", "resource:keys", "resource:create", "resource:delete", "resource:operations",
		"messenger:consume", "messenger:create",
	} {
		assert.True(t, names[name], name)
	}
}
