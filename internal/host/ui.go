package host

import "strconv"

// UICommand is one declarative widget update: a key path and its new value.
type UICommand struct {
	Key   string
	Value string
}

// UICommandBuilder accumulates widget updates for a single UISink.Update
// call. The zero value is ready for use.
type UICommandBuilder struct {
	appends  []string
	commands []UICommand
}

// NewUICommandBuilder returns an empty builder.
func NewUICommandBuilder() *UICommandBuilder {
	return &UICommandBuilder{}
}

// Append registers a widget document to attach before applying commands.
func (b *UICommandBuilder) Append(path string) {
	b.appends = append(b.appends, path)
}

// Set records a string-valued update for the widget key.
func (b *UICommandBuilder) Set(key, value string) {
	b.commands = append(b.commands, UICommand{Key: key, Value: value})
}

// SetBool records a boolean-valued update for the widget key.
func (b *UICommandBuilder) SetBool(key string, value bool) {
	b.commands = append(b.commands, UICommand{Key: key, Value: strconv.FormatBool(value)})
}

// Appends returns the widget documents registered via Append, in order.
func (b *UICommandBuilder) Appends() []string {
	cp := make([]string, len(b.appends))
	copy(cp, b.appends)
	return cp
}

// Commands returns a copy of the recorded updates, in order.
func (b *UICommandBuilder) Commands() []UICommand {
	cp := make([]UICommand, len(b.commands))
	copy(cp, b.commands)
	return cp
}

// Get returns the last recorded value for key, or false if key was never set.
func (b *UICommandBuilder) Get(key string) (string, bool) {
	for i := len(b.commands) - 1; i >= 0; i-- {
		if b.commands[i].Key == key {
			return b.commands[i].Value, true
		}
	}
	return "", false
}
