package dialogs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon-ai/internal/app"
	"horizon-ai/internal/bridge"
)

type fakeDialogs struct {
	messages []MessageOptions
	asked    []AskOptions
	answer   bool
	opened   OpenOptions
	path     string
	err      error
}

func (f *fakeDialogs) Message(_ context.Context, o MessageOptions) error {
	f.messages = append(f.messages, o)
	return f.err
}

func (f *fakeDialogs) Ask(_ context.Context, o AskOptions) (bool, error) {
	f.asked = append(f.asked, o)
	return f.answer, f.err
}

func (f *fakeDialogs) Confirm(ctx context.Context, o AskOptions) (bool, error) {
	return f.Ask(ctx, o)
}

func (f *fakeDialogs) Open(_ context.Context, o OpenOptions) (string, error) {
	f.opened = o
	return f.path, f.err
}

func (f *fakeDialogs) Save(_ context.Context, _ SaveOptions) (string, error) {
	return f.path, f.err
}

func setup(t *testing.T, fake *fakeDialogs) *bridge.Bridge {
	b := bridge.New(nil)
	p := NewWith(fake)
	require.NoError(t, p.Setup(&app.Host{Bridge: b}))
	assert.Same(t, fake, p.Dialogs())
	return b
}

func invoke(t *testing.T, b *bridge.Bridge, cmd, args string) (json.RawMessage, error) {
	t.Helper()
	return b.Invoke(context.Background(), bridge.PluginCommand(PluginName, cmd), json.RawMessage(args))
}

func TestPlugin_RegistersCommands(t *testing.T) {
	b := setup(t, &fakeDialogs{})
	assert.Equal(t, []string{
		"plugin:dialog|ask",
		"plugin:dialog|confirm",
		"plugin:dialog|message",
		"plugin:dialog|open",
		"plugin:dialog|save",
	}, b.Commands())
}

func TestPlugin_Message(t *testing.T) {
	fake := &fakeDialogs{}
	b := setup(t, fake)

	out, err := invoke(t, b, "message", `{"title":"About","message":"Horizon AI 1.0.0","kind":"info"}`)
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(out))
	require.Len(t, fake.messages, 1)
	assert.Equal(t, "Horizon AI 1.0.0", fake.messages[0].Message)

	_, err = invoke(t, b, "message", `{"message":"x","kind":"fancy"}`)
	var be *bridge.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, bridge.CodeInvalidArgs, be.Code)
	assert.Len(t, fake.messages, 1)
}

func TestPlugin_AskAndConfirm(t *testing.T) {
	fake := &fakeDialogs{answer: true}
	b := setup(t, fake)

	out, err := invoke(t, b, "ask", `{"title":"Quit","message":"Really quit?","okLabel":"Quit"}`)
	require.NoError(t, err)
	assert.JSONEq(t, "true", string(out))

	fake.answer = false
	out, err = invoke(t, b, "confirm", `{"message":"Delete?","kind":"warning"}`)
	require.NoError(t, err)
	assert.JSONEq(t, "false", string(out))

	require.Len(t, fake.asked, 2)
	assert.Equal(t, "Quit", fake.asked[0].OkLabel)
	assert.Equal(t, KindWarning, fake.asked[1].Kind)
}

func TestPlugin_OpenAndSave(t *testing.T) {
	fake := &fakeDialogs{path: "/home/user/models/qwen.gguf"}
	b := setup(t, fake)

	out, err := invoke(t, b, "open", `{"filters":[{"name":"Models","extensions":["gguf"]}]}`)
	require.NoError(t, err)
	assert.JSONEq(t, `"/home/user/models/qwen.gguf"`, string(out))
	assert.Equal(t, []string{"gguf"}, fake.opened.Filters[0].Extensions)

	fake.path = ""
	out, err = invoke(t, b, "open", `{"directory":true}`)
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(out), "cancelled picker answers null")
	assert.True(t, fake.opened.Directory)

	out, err = invoke(t, b, "save", "")
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(out))
}

func TestPlugin_CancelledDialog(t *testing.T) {
	fake := &fakeDialogs{err: context.Canceled}
	b := setup(t, fake)

	_, err := invoke(t, b, "ask", `{"message":"?"}`)
	var be *bridge.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, bridge.CodeCancelled, be.Code)
}

func TestPlugin_NeedsWindow(t *testing.T) {
	err := New().Setup(&app.Host{Bridge: bridge.New(nil)})
	assert.ErrorIs(t, err, ErrNoWindow)
}

func TestExtensions(t *testing.T) {
	got := extensions([]Filter{
		{Name: "Images", Extensions: []string{"png", ".JPG", " jpeg "}},
		{Name: "Again", Extensions: []string{".png", ""}},
	})
	assert.Equal(t, []string{".png", ".jpg", ".jpeg"}, got)

	assert.Nil(t, extensions([]Filter{{Extensions: []string{"png", "*"}}}))
	assert.Nil(t, extensions(nil))
}
