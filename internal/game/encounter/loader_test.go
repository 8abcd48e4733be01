package encounter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskhollow/skirmish/internal/game/encounter"
)

const validTemplate = `id: gang-ambush
name: Gang Ambush
participants:
  - name: Alice
    kind: player
    max_hp: 20
    initiative_mod: 3
  - name: Ganger
    kind: npc
    max_hp: 12
    initiative_mod: 1
`

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_Valid(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "ambush.yaml", validTemplate)

	tpl, err := encounter.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gang-ambush", tpl.ID)
	assert.Equal(t, "Gang Ambush", tpl.Name)
	require.Len(t, tpl.Participants, 2)
	assert.Equal(t, "Alice", tpl.Participants[0].Name)
	assert.Equal(t, "player", tpl.Participants[0].Kind)
	assert.Equal(t, 3, tpl.Participants[0].InitiativeMod)
	assert.Equal(t, float64(12), tpl.Participants[1].MaxHP)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := encounter.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_UnknownFieldRejected(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "bad.yaml", validTemplate+"difficulty: hard\n")

	_, err := encounter.LoadFile(path)
	assert.Error(t, err)
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name string
		tpl  encounter.Template
		want string
	}{
		{
			name: "empty id",
			tpl: encounter.Template{Participants: []encounter.ParticipantDef{
				{Name: "A", Kind: "player", MaxHP: 10},
				{Name: "B", Kind: "npc", MaxHP: 10},
			}},
			want: "id must not be empty",
		},
		{
			name: "too few participants",
			tpl: encounter.Template{ID: "x", Participants: []encounter.ParticipantDef{
				{Name: "A", Kind: "player", MaxHP: 10},
			}},
			want: "at least 2 participants",
		},
		{
			name: "duplicate names",
			tpl: encounter.Template{ID: "x", Participants: []encounter.ParticipantDef{
				{Name: "A", Kind: "player", MaxHP: 10},
				{Name: "A", Kind: "npc", MaxHP: 10},
			}},
			want: `duplicate participant name "A"`,
		},
		{
			name: "bad kind",
			tpl: encounter.Template{ID: "x", Participants: []encounter.ParticipantDef{
				{Name: "A", Kind: "player", MaxHP: 10},
				{Name: "B", Kind: "monster", MaxHP: 10},
			}},
			want: "kind must be",
		},
		{
			name: "non-positive hp",
			tpl: encounter.Template{ID: "x", Participants: []encounter.ParticipantDef{
				{Name: "A", Kind: "player", MaxHP: 10},
				{Name: "B", Kind: "npc", MaxHP: 0},
			}},
			want: "max_hp must be positive",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tpl.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "ambush.yaml", validTemplate)
	writeTemplate(t, dir, "notes.txt", "ignored")

	templates, err := encounter.LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Contains(t, templates, "gang-ambush")
}

func TestLoadDirectory_DuplicateID(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "a.yaml", validTemplate)
	writeTemplate(t, dir, "b.yaml", validTemplate)

	_, err := encounter.LoadDirectory(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate encounter id")
}
