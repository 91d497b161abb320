package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"join/internal/model"
	"join/internal/repository"
	"join/internal/service"
)

var demoContacts = []service.ContactInput{
	{Name: "Anton Mayer", Email: "anton@gmail.com", Phone: "+49 1111 111 11 1"},
	{Name: "Anja Schulz", Email: "schulz@hotmail.com", Phone: "+49 2222 222 22 2"},
	{Name: "Benedikt Ziegler", Email: "benedikt@gmail.com", Phone: "+49 3333 333 33 3"},
	{Name: "David Eisenberg", Email: "davidberg@gmail.com", Phone: "+49 4444 444 44 4"},
	{Name: "Eva Fischer", Email: "eva@gmail.com", Phone: "+49 5555 555 55 5"},
	{Name: "Emmanuel Mauer", Email: "emmanuelma@gmail.com", Phone: "+49 6666 666 66 6"},
	{Name: "Marcel Bauer", Email: "bauer@gmail.com", Phone: "+49 7777 777 77 7"},
	{Name: "Tatjana Wolf", Email: "wolf@gmail.com", Phone: "+49 8888 888 88 8"},
}

type demoTask struct {
	title, description string
	category           model.Category
	priority           model.Priority
	status             model.Status
	dueInDays          int
	assigned           []int
	subtasks           []string
}

var demoTasks = []demoTask{
	{
		title:       "Kochwelt Page & Recipe Recommender",
		description: "Build start page with recipe recommendation.",
		category:    model.CategoryUserStory,
		priority:    model.PriorityMedium,
		status:      model.StatusInProgress,
		dueInDays:   14,
		assigned:    []int{1, 5, 7},
		subtasks:    []string{"Implement Recipe Recommendation", "Start Page Layout"},
	},
	{
		title:       "HTML Base Template Creation",
		description: "Create reusable HTML base templates.",
		category:    model.CategoryTechnicalTasks,
		priority:    model.PriorityLow,
		status:      model.StatusAwaitingFeedback,
		dueInDays:   21,
		assigned:    []int{3, 4},
	},
	{
		title:       "Daily Kochwelt Recipe",
		description: "Implement daily recipe and portion calculator.",
		category:    model.CategoryUserStory,
		priority:    model.PriorityUrgent,
		status:      model.StatusAwaitingFeedback,
		dueInDays:   3,
		assigned:    []int{2, 6, 8},
	},
	{
		title:       "CSS Architecture Planning",
		description: "Define CSS naming conventions and structure.",
		category:    model.CategoryTechnicalTasks,
		priority:    model.PriorityUrgent,
		status:      model.StatusDone,
		dueInDays:   -2,
		assigned:    []int{2, 3},
		subtasks:    []string{"Establish CSS Methodology", "Setup Base Styles"},
	},
	{
		title:       "Contact Form & Imprint",
		description: "Create a contact form and imprint page.",
		category:    model.CategoryUserStory,
		priority:    model.PriorityUrgent,
		status:      model.StatusToDo,
		dueInDays:   7,
		assigned:    []int{1, 4},
		subtasks:    []string{"Contact Form", "Imprint"},
	},
}

var errNotEmpty = errors.New("collections already hold data, use --force to replace them")

func newSeedCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill contacts and tasks with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.session(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			if len(s.store.Contacts())+len(s.store.Tasks()) > 0 {
				if !force {
					return writeErr(cmd, errNotEmpty)
				}
				for _, path := range []string{repository.ContactsPath, repository.TasksPath} {
					if err := s.raw.Delete(ctx, path); err != nil {
						return writeErr(cmd, err)
					}
				}
				if err := s.store.Init(ctx); err != nil {
					return writeErr(cmd, err)
				}
			}

			ids := make(map[int]model.Contact, len(demoContacts))
			for i, in := range demoContacts {
				c, err := s.contacts.Create(ctx, in)
				if err != nil {
					return writeErr(cmd, err)
				}
				ids[i+1] = c
			}

			today := time.Now()
			for _, dt := range demoTasks {
				d := service.NewDraft()
				d.Title = dt.title
				d.Description = dt.description
				d.Category = dt.category
				d.Priority = dt.priority
				d.Status = dt.status
				d.DueDate = today.AddDate(0, 0, dt.dueInDays).Format(model.DateLayout)
				for _, n := range dt.assigned {
					d.ToggleContact(ids[n])
				}
				for _, text := range dt.subtasks {
					d.AddSubtask(text)
				}
				if _, err := s.composer.Create(ctx, d); err != nil {
					return writeErr(cmd, err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(
				fmt.Sprintf("Seeded %d contacts and %d tasks", len(demoContacts), len(demoTasks)),
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace existing contacts and tasks")
	return cmd
}
