package view

import (
	"html/template"
	"strings"

	"join/internal/model"
	"join/internal/service"
)

// MaxBadges is the number of assignee badges shown on a card before the
// overflow badge takes over.
const MaxBadges = 6

type Badge struct {
	ID       int
	Name     string
	Initials string
	Color    string
}

func BadgeFor(c model.Contact) Badge {
	initials := c.Initials
	if initials == "" {
		initials = model.Initials(c.Name)
	}
	return Badge{ID: c.ID, Name: c.Name, Initials: initials, Color: c.Color}
}

// ResolveAssignees maps assignee ids to badges in task order. Duplicate ids
// and ids without a contact are dropped.
func ResolveAssignees(ids []int, contacts map[int]model.Contact) []Badge {
	var out []Badge
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		c, ok := contacts[id]
		if !ok {
			continue
		}
		out = append(out, BadgeFor(c))
	}
	return out
}

// TaskCard is everything the board needs to draw one task.
type TaskCard struct {
	ID            int64
	Title         string
	Summary       string
	Category      model.Category
	CategoryClass string
	Priority      model.Priority
	Status        model.Status
	DoneSubtasks  int
	TotalSubtasks int
	Progress      float64
	Badges        []Badge
	Overflow      int
}

func NewTaskCard(t model.Task, contacts map[int]model.Contact) TaskCard {
	badges := ResolveAssignees(t.AssignedTo, contacts)
	card := TaskCard{
		ID:            t.ID,
		Title:         t.Title,
		Summary:       truncate(t.Description, 60),
		Category:      t.Category,
		CategoryClass: categoryClass(t.Category),
		Priority:      t.Priority,
		Status:        t.Status,
		DoneSubtasks:  t.CompletedSubtasks(),
		TotalSubtasks: len(t.SubTasks),
		Progress:      t.Progress(),
		Badges:        badges,
	}
	if len(badges) > MaxBadges {
		card.Badges = badges[:MaxBadges]
		card.Overflow = len(badges) - MaxBadges
	}
	return card
}

func (c TaskCard) HasSubtasks() bool {
	return c.TotalSubtasks > 0
}

type ColumnProps struct {
	Status    model.Status
	Title     string
	Cards     []TaskCard
	Empty     bool
	Highlight bool
}

type BoardProps struct {
	Page
	Query   string
	Columns []ColumnProps
}

// NewBoard turns grouped lanes into card columns. Lanes other than the
// dragged task's own lane are highlighted while drag is active.
func NewBoard(cols []service.BoardColumn, contacts map[int]model.Contact, drag service.DragState) []ColumnProps {
	out := make([]ColumnProps, 0, len(cols))
	for _, col := range cols {
		cp := ColumnProps{
			Status:    col.Status,
			Title:     col.Title,
			Empty:     col.Empty,
			Highlight: drag.Active() && drag.Highlighted(col.Status),
		}
		for _, t := range col.Tasks {
			cp.Cards = append(cp.Cards, NewTaskCard(t, contacts))
		}
		out = append(out, cp)
	}
	return out
}

type SubtaskItem struct {
	ID        int
	Content   string
	Completed bool
}

type TaskDetail struct {
	Card            TaskCard
	DescriptionHTML template.HTML
	DueDate         string
	Assignees       []Badge
	SubTasks        []SubtaskItem
}

// NewTaskDetail lists every resolvable assignee, without the card cap.
func NewTaskDetail(t model.Task, contacts map[int]model.Contact) TaskDetail {
	d := TaskDetail{
		Card:            NewTaskCard(t, contacts),
		DescriptionHTML: RenderMarkdown(t.Description),
		DueDate:         formatDue(t),
		Assignees:       ResolveAssignees(t.AssignedTo, contacts),
	}
	for _, st := range t.SubTasks {
		d.SubTasks = append(d.SubTasks, SubtaskItem{ID: st.ID, Content: st.Content, Completed: st.Completed})
	}
	return d
}

type ContactListProps struct {
	Groups   []service.ContactGroup
	Selected int
}

type ContactsProps struct {
	Page
	ContactListProps
	Active *model.Contact
}

type ContactOption struct {
	Badge
	Selected bool
}

type AddTaskProps struct {
	Page
	EditID     int64
	Signals    template.HTMLAttr
	Draft      service.Draft
	Contacts   []ContactOption
	Categories []model.Category
	Priorities []model.Priority
	Statuses   []model.Column
}

func NewAddTask(page Page, d service.Draft, editID int64, sorted []model.Contact) AddTaskProps {
	p := AddTaskProps{
		Page:       page,
		EditID:     editID,
		Signals:    SignalsFromDraft(d, editID).JSON(),
		Draft:      d,
		Categories: model.Categories,
		Priorities: model.Priorities,
		Statuses:   model.Columns,
	}
	for _, c := range sorted {
		p.Contacts = append(p.Contacts, ContactOption{Badge: BadgeFor(c), Selected: d.IsSelected(c.ID)})
	}
	return p
}

type SummaryProps struct {
	Page
	service.Summary
	NextUrgent string
	// Welcome shows the full-screen greeting once right after login.
	Welcome bool
}

func NewSummary(page Page, s service.Summary) SummaryProps {
	p := SummaryProps{Page: page, Summary: s}
	if s.NextUrgentDue != nil {
		p.NextUrgent = s.NextUrgentDue.Format("January 2, 2006")
	}
	return p
}

type LoginProps struct {
	Page
	Mode  string
	Error string
}

func categoryClass(c model.Category) string {
	switch c {
	case model.CategoryUserStory:
		return "user-story"
	case model.CategoryTechnicalTasks:
		return "technical-task"
	}
	return "uncategorized"
}

func formatDue(t model.Task) string {
	due, err := t.Due()
	if err != nil || due.IsZero() {
		return t.DueDate
	}
	return due.Format("02/01/2006")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
