package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kelsos/timecamp-cli/internal/client"
	"github.com/kelsos/timecamp-cli/internal/config"
	"github.com/kelsos/timecamp-cli/internal/export"
	"github.com/kelsos/timecamp-cli/internal/logger"
	"github.com/kelsos/timecamp-cli/internal/models"
	"github.com/kelsos/timecamp-cli/internal/services"
	"github.com/kelsos/timecamp-cli/internal/tui"
	"github.com/kelsos/timecamp-cli/internal/utils"
)

type app struct {
	config  *config.Config
	client  *client.APIClient
	user    *services.UserService
	users   *services.UsersService
	tasks   *services.TasksService
	timer   *services.TimerService
	entries *services.TimeEntriesService
	groups  *services.GroupsService
	tags    *services.TagsService
	rates   *services.BillingRatesService
	fields  *services.CustomFieldsService
}

func newApp(apiKey, baseURL string) (*app, error) {
	cfg := config.NewConfig()
	cfg.LoadFromEnvironment()

	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	apiClient := client.NewAPIClient(cfg)
	userService := services.NewUserService(apiClient, cfg)

	return &app{
		config:  cfg,
		client:  apiClient,
		user:    userService,
		users:   services.NewUsersService(apiClient, userService, cfg),
		tasks:   services.NewTasksService(apiClient, userService),
		timer:   services.NewTimerService(apiClient),
		entries: services.NewTimeEntriesService(apiClient),
		groups:  services.NewGroupsService(apiClient),
		tags:    services.NewTagsService(apiClient),
		rates:   services.NewBillingRatesService(apiClient),
		fields:  services.NewCustomFieldsService(apiClient),
	}, nil
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Fatal("Failed to render output: %v", err)
	}
	fmt.Fprintln(os.Stdout, string(data))
}

func main() {
	logger.Init()
	utils.LoadEnvironment()

	var (
		apiKey  string
		baseURL string
	)

	rootCmd := &cobra.Command{
		Use:   "timecamp",
		Short: "A CLI tool for the TimeCamp API",
		Long:  `timecamp is a CLI tool for managing TimeCamp tasks, timers, time entries and workspace members.`,
	}

	rootCmd.PersistentFlags().StringVarP(&apiKey, "api-key", "k", "", "TimeCamp API key (default: TIMECAMP_API_KEY)")
	rootCmd.PersistentFlags().StringVarP(&baseURL, "base-url", "u", "", "API base URL")

	var (
		tasksUser    string
		noBreadcrumb bool
		allTasks     bool
	)
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks visible to a user",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			if allTasks {
				tasks, err := a.tasks.GetAll()
				if err != nil {
					logger.Fatal("Failed to fetch tasks: %v", err)
				}
				printJSON(tasks)
				return
			}

			tasks, err := a.tasks.GetActiveUserTasks(services.GetActiveUserTasksOptions{
				User:                  tasksUser,
				IncludeFullBreadcrumb: !noBreadcrumb,
			})
			if err != nil {
				logger.Fatal("Failed to fetch tasks: %v", err)
			}
			printJSON(tasks)
		},
	}
	tasksCmd.Flags().StringVarP(&tasksUser, "user", "", "me", "User to resolve visibility for (me, a numeric id, or an opaque token)")
	tasksCmd.Flags().BoolVarP(&noBreadcrumb, "no-breadcrumb", "", false, "Only include directly trackable tasks")
	tasksCmd.Flags().BoolVarP(&allTasks, "all", "a", false, "Include archived tasks and skip visibility filtering")

	var (
		inviteName  string
		inviteGroup int
	)
	inviteCmd := &cobra.Command{
		Use:   "invite <email>",
		Short: "Invite a user to the workspace",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			result, err := a.users.Invite(services.InviteRequest{
				Email:       args[0],
				DisplayName: inviteName,
				GroupID:     inviteGroup,
			})
			if err != nil {
				logger.Fatal("Failed to invite user: %v", err)
			}

			if result.ResolveErr != nil {
				logger.Warn("Membership created but user id could not be resolved: %v", result.ResolveErr)
			}
			if result.DisplayNameUpdateErr != nil {
				logger.Warn("Display name update failed: %v", result.DisplayNameUpdateErr)
			}
			printJSON(result)
		},
	}
	inviteCmd.Flags().StringVarP(&inviteName, "name", "n", "", "Display name for the invited user")
	inviteCmd.Flags().IntVarP(&inviteGroup, "group", "g", 0, "Target group id (default: the caller's root group)")

	timerCmd := &cobra.Command{
		Use:   "timer",
		Short: "Manage the running timer",
	}

	var (
		timerTask int
		timerAt   string
	)
	timerStartCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a timer",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			status, err := a.timer.Start(timerTask, timerAt)
			if err != nil {
				logger.Fatal("Failed to start timer: %v", err)
			}
			printJSON(status)
		},
	}
	timerStartCmd.Flags().IntVarP(&timerTask, "task", "t", 0, "Task id to track against")
	timerStartCmd.Flags().StringVarP(&timerAt, "at", "", "", "Start timestamp (YYYY-MM-DD HH:mm:ss, default: now)")

	var timerStopAt string
	timerStopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			status, err := a.timer.Stop(timerStopAt)
			if err != nil {
				logger.Fatal("Failed to stop timer: %v", err)
			}
			printJSON(status)
		},
	}
	timerStopCmd.Flags().StringVarP(&timerStopAt, "at", "", "", "Stop timestamp (YYYY-MM-DD HH:mm:ss, default: now)")

	timerStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current timer state",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			status, err := a.timer.Status()
			if err != nil {
				logger.Fatal("Failed to get timer status: %v", err)
			}
			printJSON(status)
		},
	}

	timerWatchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the running timer live",
		Run: func(cmd *cobra.Command, args []string) {
			if err := logger.InitFileOnly(); err != nil {
				logger.Fatal("Failed to initialize file logging: %v", err)
			}
			defer logger.Close()

			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			if err := tui.WatchTimer(a.timer); err != nil {
				logger.Fatal("%v", err)
			}
		},
	}

	timerCmd.AddCommand(timerStartCmd)
	timerCmd.AddCommand(timerStopCmd)
	timerCmd.AddCommand(timerStatusCmd)
	timerCmd.AddCommand(timerWatchCmd)

	var (
		entriesFrom  string
		entriesTo    string
		entriesUsers string
		entriesTasks string
	)
	today := utils.FormatDate(time.Now())
	entriesCmd := &cobra.Command{
		Use:   "entries",
		Short: "List time entries for a date range",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			entries, err := a.entries.Get(models.TimeEntriesQuery{
				From:    entriesFrom,
				To:      entriesTo,
				UserIDs: entriesUsers,
				TaskIDs: entriesTasks,
			})
			if err != nil {
				logger.Fatal("Failed to fetch entries: %v", err)
			}
			printJSON(entries)
		},
	}
	entriesCmd.Flags().StringVarP(&entriesFrom, "from", "f", today, "Range start (YYYY-MM-DD)")
	entriesCmd.Flags().StringVarP(&entriesTo, "to", "t", today, "Range end (YYYY-MM-DD)")
	entriesCmd.Flags().StringVarP(&entriesUsers, "users", "", "", "Comma-separated user ids")
	entriesCmd.Flags().StringVarP(&entriesTasks, "tasks", "", "", "Comma-separated task ids")

	var exportDir string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export time entries for a date range to a JSON file",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			query := models.TimeEntriesQuery{
				From:    entriesFrom,
				To:      entriesTo,
				UserIDs: entriesUsers,
				TaskIDs: entriesTasks,
			}

			entries, err := a.entries.Get(query)
			if err != nil {
				logger.Fatal("Failed to fetch entries: %v", err)
			}

			dir := exportDir
			if dir == "" {
				dir = a.config.ExportDir
			}

			filePath, err := export.WriteEntries(entries, query, dir)
			if err != nil {
				logger.Fatal("Failed to export entries: %v", err)
			}
			logger.Info("Export written to %s", filePath)
		},
	}
	exportCmd.Flags().StringVarP(&entriesFrom, "from", "f", today, "Range start (YYYY-MM-DD)")
	exportCmd.Flags().StringVarP(&entriesTo, "to", "t", today, "Range end (YYYY-MM-DD)")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "Directory for export files")

	var usersFields bool
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "List workspace members",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			if usersFields {
				users, err := a.users.GetAllWithCustomFields()
				if err != nil {
					logger.Fatal("Failed to fetch users: %v", err)
				}
				printJSON(users)
				return
			}

			users, err := a.users.GetAll()
			if err != nil {
				logger.Fatal("Failed to fetch users: %v", err)
			}
			printJSON(users)
		},
	}
	usersCmd.Flags().BoolVarP(&usersFields, "fields", "", false, "Include custom field values per member")

	groupsCmd := &cobra.Command{
		Use:   "groups",
		Short: "List workspace groups",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			groups, err := a.groups.GetAll()
			if err != nil {
				logger.Fatal("Failed to fetch groups: %v", err)
			}
			printJSON(groups)
		},
	}

	var tagsTask int
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "List tag lists with their tags",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			query := models.TagListsQuery{}
			if tagsTask != 0 {
				query.TaskID = &tagsTask
			}

			lists, err := a.tags.GetTagLists(query)
			if err != nil {
				logger.Fatal("Failed to fetch tag lists: %v", err)
			}
			printJSON(lists)
		},
	}
	tagsCmd.Flags().IntVarP(&tagsTask, "task", "t", 0, "Only tag lists applicable to this task")

	ratesCmd := &cobra.Command{
		Use:   "rates",
		Short: "Inspect billing rates",
	}

	var rateType string
	ratesTaskCmd := &cobra.Command{
		Use:   "task <task-id>",
		Short: "Show billing rates for a task",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			taskID, err := strconv.Atoi(args[0])
			if err != nil {
				logger.Fatal("Invalid task id %q", args[0])
			}

			rates, err := a.rates.GetTaskRates(taskID, rateType)
			if err != nil {
				logger.Fatal("Failed to fetch rates: %v", err)
			}
			printJSON(rates)
		},
	}
	ratesTaskCmd.Flags().StringVarP(&rateType, "type", "", "", "Rate type id filter")

	ratesUserCmd := &cobra.Command{
		Use:   "user <user-id>",
		Short: "Show billing rates for a user",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			userID, err := strconv.Atoi(args[0])
			if err != nil {
				logger.Fatal("Invalid user id %q", args[0])
			}

			rates, err := a.rates.GetUserRates(userID, rateType)
			if err != nil {
				logger.Fatal("Failed to fetch rates: %v", err)
			}
			printJSON(rates)
		},
	}

	ratesUserCmd.Flags().StringVarP(&rateType, "type", "", "", "Rate type id filter")

	ratesCmd.AddCommand(ratesTaskCmd)
	ratesCmd.AddCommand(ratesUserCmd)

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "List custom field templates",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			templates, err := a.fields.GetAll()
			if err != nil {
				logger.Fatal("Failed to fetch custom field templates: %v", err)
			}
			printJSON(templates)
		},
	}

	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated user's profile",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := newApp(apiKey, baseURL)
			if err != nil {
				logger.Fatal("%v", err)
			}

			user, err := a.user.Get()
			if err != nil {
				logger.Fatal("Failed to fetch profile: %v", err)
			}
			printJSON(user)
		},
	}

	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(inviteCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(meCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Failed to execute command: %v", err)
	}
}
