package view_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"join/internal/model"
	"join/internal/service"
	"join/internal/view"
)

func contactsUpTo(n int) map[int]model.Contact {
	out := make(map[int]model.Contact, n)
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("Person%d Tester", i)
		out[i] = model.Contact{ID: i, Name: name, Color: model.ContactColors[i%len(model.ContactColors)], Initials: model.Initials(name)}
	}
	return out
}

func TestNewTaskCard_BadgeCapAndOverflow(t *testing.T) {
	// Arrange
	contacts := contactsUpTo(9)
	task := model.Task{ID: 1, AssignedTo: []int{1, 2, 2, 3, 4, 5, 6, 7, 7, 8, 9, 42}}

	// Act
	card := view.NewTaskCard(task, contacts)

	// Assert
	assert.Len(t, card.Badges, view.MaxBadges)
	assert.Equal(t, 3, card.Overflow)
	seen := map[int]bool{}
	for _, b := range card.Badges {
		assert.False(t, seen[b.ID], "duplicate badge %d", b.ID)
		seen[b.ID] = true
	}
}

func TestNewTaskCard_NoOverflowAtCap(t *testing.T) {
	card := view.NewTaskCard(model.Task{AssignedTo: []int{1, 2, 3, 4, 5, 6, 6}}, contactsUpTo(6))

	assert.Len(t, card.Badges, 6)
	assert.Zero(t, card.Overflow)
}

func TestNewTaskCard_SkipsDanglingAssignees(t *testing.T) {
	card := view.NewTaskCard(model.Task{AssignedTo: []int{7, 1}}, contactsUpTo(2))

	require.Len(t, card.Badges, 1)
	assert.Equal(t, 1, card.Badges[0].ID)
}

func TestNewTaskCard_Progress(t *testing.T) {
	task := model.Task{SubTasks: []model.Subtask{{ID: 1, Completed: true}, {ID: 2}}}

	card := view.NewTaskCard(task, nil)

	assert.InDelta(t, 50.0, card.Progress, 0.001)
	assert.Equal(t, 1, card.DoneSubtasks)
	assert.Equal(t, 2, card.TotalSubtasks)
	assert.True(t, card.HasSubtasks())
}

func TestNewBoard_HighlightsOtherColumnsDuringDrag(t *testing.T) {
	cols := service.GroupByStatus([]model.Task{{ID: 5, Status: model.StatusInProgress}}, "")
	drag := service.DragState{TaskID: 5, From: model.StatusInProgress,
		Highlight: []model.Status{model.StatusToDo, model.StatusAwaitingFeedback, model.StatusDone}}

	props := view.NewBoard(cols, nil, drag)

	require.Len(t, props, 4)
	assert.True(t, props[0].Highlight)
	assert.False(t, props[1].Highlight)
	assert.True(t, props[3].Highlight)

	idle := view.NewBoard(cols, nil, drag.Cancel())
	for _, c := range idle {
		assert.False(t, c.Highlight)
	}
}

func TestRenderMarkdown_Sanitises(t *testing.T) {
	out := string(view.RenderMarkdown("**bold** <script>alert(1)</script> [x](javascript:alert(1))"))

	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
	assert.Empty(t, view.RenderMarkdown("   "))
}

func TestRenderer_BoardColumns(t *testing.T) {
	// Arrange
	r, err := view.New()
	require.NoError(t, err)
	tasks := []model.Task{{ID: 1, Title: "Crowded", Status: model.StatusToDo, Priority: model.PriorityLow,
		AssignedTo: []int{1, 2, 3, 4, 5, 6, 7, 8}}}
	cols := view.NewBoard(service.GroupByStatus(tasks, ""), contactsUpTo(8), service.DragState{})

	// Act
	html, err := r.Fragment("board_columns", cols)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, html, `id="task-1"`)
	assert.Contains(t, html, "+2")
	assert.Equal(t, 3, strings.Count(html, "No tasks"))
	assert.Contains(t, html, "No tasks Done")
}

func TestRenderer_ContactList(t *testing.T) {
	r, err := view.New()
	require.NoError(t, err)
	sorted := service.SortContacts([]model.Contact{
		{ID: 2, Name: "Zoe Young", Initials: "ZY", Color: "#9327FF"},
		{ID: 1, Name: "Ann Bell", Initials: "AB", Color: "#FF7A00"},
	})

	html, err := r.Fragment("contact_list", view.ContactListProps{Groups: service.GroupContacts(sorted), Selected: 2})

	require.NoError(t, err)
	assert.Less(t, strings.Index(html, "Ann Bell"), strings.Index(html, "Zoe Young"))
	assert.Contains(t, html, `class="contact selected"`)
	assert.Contains(t, html, "scrollIntoView")
}

func TestRenderer_AddTaskFormMarksInvalidFields(t *testing.T) {
	// Arrange
	r, err := view.New()
	require.NoError(t, err)
	d := service.NewDraft()
	_ = d.Validate()
	props := view.NewAddTask(view.NewPage("Add Task", "add-task", "Ann Bell", false), d, 0, nil)

	// Act
	var b bytes.Buffer
	err = r.Render(&b, "add_task", props)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(b.String(), `class="invalid"`))
	assert.Contains(t, b.String(), "Create Task")
}

func TestRenderer_PagesRender(t *testing.T) {
	r, err := view.New()
	require.NoError(t, err)
	page := view.NewPage("Summary", "summary", "Ann Bell", false)

	for name, data := range map[string]any{
		"login":    view.LoginProps{Page: view.NewPage("Log in", "", "", false)},
		"summary":  view.NewSummary(page, service.Summarize(nil, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))),
		"board":    view.BoardProps{Page: page, Columns: view.NewBoard(service.GroupByStatus(nil, ""), nil, service.DragState{})},
		"contacts": view.ContactsProps{Page: page},
	} {
		var b bytes.Buffer
		require.NoError(t, r.Render(&b, name, data), name)
		assert.Contains(t, b.String(), "</html>", name)
	}
}

func TestSignals_RoundTripDraft(t *testing.T) {
	// Arrange
	contacts := contactsUpTo(2)
	d := service.NewDraft()
	d.Title = "Ship"
	d.SetPriority(model.PriorityLow)
	d.ToggleContact(contacts[2])
	d.AddSubtask("pack")

	// Act
	sig := view.SignalsFromDraft(d, 0)
	sig.Assigned = append(sig.Assigned, 99)
	back := sig.Draft(contacts)

	// Assert
	assert.Equal(t, "Ship", back.Title)
	assert.Equal(t, model.PriorityLow, back.Priority)
	assert.True(t, back.IsSelected(2))
	assert.False(t, back.IsSelected(99))
	assert.Equal(t, d.SubTasks, back.SubTasks)
	assert.Equal(t, map[string]bool{"title": false, "dueDate": false, "category": false}, sig.Invalid)
}

func TestNewPage_Initials(t *testing.T) {
	assert.Equal(t, "AB", view.NewPage("x", "", "Ann Bell", false).Initials)
	assert.Equal(t, "G", view.NewPage("x", "", "Guest", true).Initials)
}
