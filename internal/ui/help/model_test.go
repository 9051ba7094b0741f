package help

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/webmail/internal/keys"
)

func TestViewListsBindings(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 30)
	view := m.View()

	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "compose")
	assert.Contains(t, view, "inbox")
	assert.Contains(t, view, "export")
}
