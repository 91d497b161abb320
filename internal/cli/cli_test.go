package cli_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"join/internal/cli"
	"join/internal/model"
	"join/internal/repository"
	"join/internal/service"
)

const storedTasks = `[
  {"id":1,"title":"Write docs","description":"","category":"Technical Tasks","status":"toDo","dueDate":"2030-01-01","priority":"low","subTasks":[],"assignedTo":[]},
  {"id":2,"title":"Fix login","description":"","category":"User Story","status":"done","dueDate":"2030-01-02","priority":"urgent","subTasks":[],"assignedTo":[]}
]`

func run(t *testing.T, mem *repository.MemoryStore, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmdWith(mem)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String() + errOut.String(), err
}

func TestSeed_FillsEmptyCollections(t *testing.T) {
	// Arrange
	mem := repository.NewMemoryStore()

	// Act
	_, err := run(t, mem, "seed")
	require.NoError(t, err)
	out, err := run(t, mem, "contacts", "list", "--json")

	// Assert
	require.NoError(t, err)
	var groups []service.ContactGroup
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.NotEmpty(t, groups)
	assert.Equal(t, "A", groups[0].Letter)
	assert.Equal(t, "Anja Schulz", groups[0].Contacts[0].Name)

	raw, err := mem.Load(t.Context(), repository.TasksPath)
	require.NoError(t, err)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(raw, &tasks))
	assert.Len(t, tasks, 5)
}

func TestSeed_RefusesNonEmptyWithoutForce(t *testing.T) {
	mem := repository.NewMemoryStore()
	mem.Seed(repository.TasksPath, storedTasks)

	_, err := run(t, mem, "seed")
	assert.Error(t, err)

	_, err = run(t, mem, "seed", "--force")
	require.NoError(t, err)
	out, err := run(t, mem, "tasks", "list", "--json", "--query", "write docs")
	require.NoError(t, err)
	assert.NotContains(t, out, "Write docs")
}

func TestTasksMove(t *testing.T) {
	// Arrange
	mem := repository.NewMemoryStore()
	mem.Seed(repository.TasksPath, storedTasks)

	// Act
	out, err := run(t, mem, "tasks", "move", "1", "inProgress")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "In progress")
	raw, err := mem.Load(t.Context(), repository.TasksPath)
	require.NoError(t, err)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(raw, &tasks))
	assert.Equal(t, model.StatusInProgress, tasks[0].Status)
}

func TestTasksMove_RejectsUnknownStatus(t *testing.T) {
	mem := repository.NewMemoryStore()
	mem.Seed(repository.TasksPath, storedTasks)

	_, err := run(t, mem, "tasks", "move", "1", "later")

	assert.Error(t, err)
}

func TestTasksList_FiltersByStatus(t *testing.T) {
	mem := repository.NewMemoryStore()
	mem.Seed(repository.TasksPath, storedTasks)

	out, err := run(t, mem, "tasks", "list", "--status", "done", "--json")

	require.NoError(t, err)
	var cols []service.BoardColumn
	require.NoError(t, json.Unmarshal([]byte(out), &cols))
	require.Len(t, cols, 1)
	require.Len(t, cols[0].Tasks, 1)
	assert.Equal(t, "Fix login", cols[0].Tasks[0].Title)
}

func TestSummary(t *testing.T) {
	mem := repository.NewMemoryStore()
	mem.Seed(repository.TasksPath, storedTasks)

	out, err := run(t, mem, "summary", "--json")

	require.NoError(t, err)
	var sum service.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Done)
	assert.Equal(t, 1, sum.Urgent)
	assert.Nil(t, sum.NextUrgentDue)
}

func TestReset(t *testing.T) {
	mem := repository.NewMemoryStore()
	mem.Seed(repository.TasksPath, storedTasks)

	_, err := run(t, mem, "reset", "tasks")
	assert.Error(t, err)

	_, err = run(t, mem, "reset", "tasks", "--yes")
	require.NoError(t, err)
	raw, err := mem.Load(t.Context(), repository.TasksPath)
	require.NoError(t, err)
	assert.Nil(t, raw)

	_, err = run(t, mem, "reset", "boards", "--yes")
	assert.Error(t, err)
}
