package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Keys(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
		help    string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}, "quit"},
		{"help", km.Help, []string{"?"}, "help"},
		{"back", km.Back, []string{"esc"}, "back"},
		{"up", km.Up, []string{"up", "k"}, "up"},
		{"down", km.Down, []string{"down", "j"}, "down"},
		{"select", km.Select, []string{"enter"}, "select"},
		{"ask", km.Ask, []string{"enter"}, "ask"},
		{"new question", km.NewQuestion, []string{"n"}, "new question"},
		{"context", km.Context, []string{"c"}, "context"},
		{"delete", km.Delete, []string{"d"}, "delete"},
		{"reload", km.Reload, []string{"r"}, "reload"},
		{"confirm", km.Confirm, []string{"y", "Y"}, "confirm"},
		{"deny", km.Deny, []string{"n", "N", "esc"}, "cancel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding.Keys())
			assert.Equal(t, tt.help, tt.binding.Help().Desc)
			assert.True(t, tt.binding.Enabled())
		})
	}
}

func TestKeyMap_HelpSets(t *testing.T) {
	km := DefaultKeyMap()

	assert.Equal(t, []key.Binding{km.Quit, km.Help}, km.ShortHelp())
	assert.Equal(t, []key.Binding{km.NewQuestion, km.Context, km.Back}, km.AnswerHelp())
	assert.Len(t, km.DocumentsHelp(), 5)
	assert.Contains(t, km.DocumentsHelp(), km.Delete)
	assert.Equal(t, []key.Binding{km.Confirm, km.Deny}, km.ConfirmHelp())
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	groups := km.FullHelp()

	require.Len(t, groups, 4)
	assert.Len(t, groups[0], 3)
	assert.Len(t, groups[1], 3)
	assert.Len(t, groups[2], 4)
	assert.Len(t, groups[3], 3)
	for _, group := range groups {
		for _, b := range group {
			assert.NotEmpty(t, b.Help().Key)
		}
	}
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		key     string
		binding key.Binding
		want    bool
	}{
		{"q", km.Quit, true},
		{"ctrl+c", km.Quit, true},
		{"Q", km.Quit, false},
		{"k", km.Up, true},
		{"up", km.Up, true},
		{"j", km.Up, false},
		{"Y", km.Confirm, true},
		{"esc", km.Deny, true},
		{"", km.Help, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.key, tt.binding))
		})
	}
}

func TestMatches_EmptyBinding(t *testing.T) {
	assert.False(t, Matches("a", key.Binding{}))
}
