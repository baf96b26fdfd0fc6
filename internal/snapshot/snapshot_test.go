package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
)

const yamlSnapshot = `
schoolId: school-1
classes:
  - id: C1
    name: Grade 10
    sections: [A, B]
subjects:
  - id: CHEM
    periodsPerWeek: 2
    roomType: LAB
    requiresConsecutive: true
mappings:
  - id: CS01
    classGroupId: C1
    subjectId: CHEM
    teacherId: T1
    periodsPerWeek: 2
    roomType: LAB
    requiresConsecutive: true
    consecutiveSize: 2
teachers:
  - id: T1
    subjectIds: [CHEM]
    maxPeriodsPerWeek: 12
    unavailable:
      MON: [0, 1]
labs:
  - id: L1
    name: Chemistry Lab
settings:
  periodsPerDay: 7
  workingDays: 5
  hasMorningAssembly: true
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	f, err := Load(writeFile(t, "school.yaml", yamlSnapshot))
	require.NoError(t, err)

	assert.Equal(t, "school-1", f.SchoolID)
	require.Len(t, f.Classes, 1)
	assert.Equal(t, []string{"A", "B"}, f.Classes[0].Sections)
	require.Len(t, f.Mappings, 1)
	assert.Equal(t, engine.RoomLab, f.Mappings[0].RoomType)
	assert.True(t, f.Mappings[0].RequiresConsecutive)
	require.Len(t, f.Teachers, 1)
	assert.True(t, f.Teachers[0].Unavailable.Blocks(engine.Monday, 1))
	assert.Equal(t, 12, f.Teachers[0].MaxPeriodsPerWeek)

	in := f.Input()
	assert.Equal(t, 7, in.Config.PeriodsPerDay)
	assert.True(t, in.Config.HasMorningAssembly)
	assert.Len(t, in.Labs, 1)
}

func TestLoadJSON(t *testing.T) {
	body := `{
  "classes": [{"id": "C1", "sections": ["A"]}],
  "mappings": [{"id": "CS01", "classGroupId": "C1", "subjectId": "S1", "teacherId": "T1", "periodsPerWeek": 5}],
  "teachers": [{"id": "T1", "subjectIds": ["S1"], "maxPeriodsPerWeek": 20}],
  "settings": {"periodsPerDay": 8, "workingDays": 5}
}`
	f, err := Load(writeFile(t, "school.json", body))
	require.NoError(t, err)

	assert.Equal(t, 5, f.Mappings[0].PeriodsPerWeek)
	report := engine.Validate(f.Input())
	assert.True(t, report.Feasible)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load(writeFile(t, "school.toml", "x = 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported snapshot format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
