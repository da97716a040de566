package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/huddlehq/huddle/internal/huddle/app"
	"github.com/huddlehq/huddle/internal/huddle/domain"
	"github.com/huddlehq/huddle/internal/huddle/routes"
	"github.com/huddlehq/huddle/internal/huddle/store"
	"github.com/huddlehq/huddle/pkg/timex"
)

const usage = `usage: huddle <command> [flags]

commands:
  login     authenticate against the CMS and persist the session
  logout    revoke and clear the persisted session
  whoami    print the currently authenticated user
  checkin   record a check-in event for the current user
  checkout  record a check-out event for the current user
  teams     list teams
  people    list people in the directory
  badges    list badges awarded to a user
  routes    print the route table
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, application, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, a *app.Application, command string, args []string) error {
	switch command {
	case "login":
		return runLogin(ctx, a, args)
	case "logout":
		a.Session.Init(ctx)
		a.Session.Logout(ctx)
		fmt.Println("logged out")
		return nil
	case "whoami":
		return runWhoami(ctx, a)
	case "checkin":
		return runCheckIn(ctx, a)
	case "checkout":
		return runCheckOut(ctx, a)
	case "teams":
		return runTeams(ctx, a)
	case "people":
		return runPeople(ctx, a, args)
	case "badges":
		return runBadges(ctx, a, args)
	case "routes":
		return runRoutes()
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runLogin(ctx context.Context, a *app.Application, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}

	if !a.Session.Login(ctx, *email, *password) {
		return fmt.Errorf("login failed: %s", a.Session.Err())
	}

	user := a.Session.User()
	fmt.Printf("logged in as %s <%s>\n", user.DisplayName(), user.Email)
	return nil
}

func runWhoami(ctx context.Context, a *app.Application) error {
	user, err := currentUser(ctx, a)
	if err != nil {
		return err
	}

	fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
	if user.Position != "" {
		fmt.Printf("position:    %s\n", user.Position)
	}
	fmt.Printf("presence:    %s\n", presenceOrOffline(user.ActiveStatus))
	if !user.LastAccess.IsZero() {
		fmt.Printf("last seen:   %s\n", timex.FormatSmartDate(time.Now(), user.LastAccess))
	}
	return nil
}

func runCheckIn(ctx context.Context, a *app.Application) error {
	user, err := currentUser(ctx, a)
	if err != nil {
		return err
	}

	a.CheckIn.InitializeCheck(ctx, user.ID)
	if err := a.CheckIn.CheckIn(ctx, user.ID); err != nil {
		return err
	}
	if msg := a.CheckIn.Err(); msg != "" {
		return fmt.Errorf("check-in failed: %s", msg)
	}

	fmt.Printf("checked in at %s\n", timex.FormatDate(a.CheckIn.CheckInAt(), true))
	return nil
}

func runCheckOut(ctx context.Context, a *app.Application) error {
	user, err := currentUser(ctx, a)
	if err != nil {
		return err
	}

	a.CheckIn.InitializeCheck(ctx, user.ID)
	if err := a.CheckIn.CheckOut(ctx, user.ID); err != nil {
		return err
	}
	if msg := a.CheckIn.Err(); msg != "" {
		return fmt.Errorf("check-out failed: %s", msg)
	}

	fmt.Printf("checked out at %s\n", timex.FormatDate(a.CheckIn.CheckOutAt(), true))
	return nil
}

func runTeams(ctx context.Context, a *app.Application) error {
	if err := requireSession(ctx, a); err != nil {
		return err
	}

	a.Teams.FetchTeams(ctx)
	if msg := a.Teams.Err(); msg != "" {
		return fmt.Errorf("failed to fetch teams: %s", msg)
	}

	teams := a.Teams.Teams()
	if len(teams) == 0 {
		fmt.Println("no teams")
		return nil
	}
	for _, team := range teams {
		fmt.Printf("%-24s %d members\n", team.Label, team.MemberCount)
	}
	return nil
}

func runPeople(ctx context.Context, a *app.Application, args []string) error {
	fs := flag.NewFlagSet("people", flag.ExitOnError)
	search := fs.String("search", "", "search by name or email")
	online := fs.Bool("online", false, "only people currently online")
	limit := fs.Int("limit", 0, "maximum number of results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := requireSession(ctx, a); err != nil {
		return err
	}

	filters := store.UserFilters{Search: *search, Limit: *limit}
	if *online {
		filters.Status = domain.PresenceOnline
	}
	a.Users.FetchUsers(ctx, filters)
	if msg := a.Users.Err(); msg != "" {
		return fmt.Errorf("failed to fetch people: %s", msg)
	}

	users := a.Users.Users()
	if len(users) == 0 {
		fmt.Println("no people found")
		return nil
	}
	now := time.Now()
	for _, user := range users {
		fmt.Printf("%-28s %-8s %s\n", user.DisplayName(),
			presenceOrOffline(user.ActiveStatus),
			timex.FormatSmartDate(now, user.LastAccess))
	}
	return nil
}

func runBadges(ctx context.Context, a *app.Application, args []string) error {
	fs := flag.NewFlagSet("badges", flag.ExitOnError)
	userID := fs.String("user", "", "user id, defaults to the current user")
	if err := fs.Parse(args); err != nil {
		return err
	}

	target := *userID
	if target == "" {
		user, err := currentUser(ctx, a)
		if err != nil {
			return err
		}
		target = user.ID
	} else if err := requireSession(ctx, a); err != nil {
		return err
	}

	a.Users.FetchUserBadges(ctx, target)
	if msg := a.Users.Err(); msg != "" {
		return fmt.Errorf("failed to fetch badges: %s", msg)
	}

	badges := a.Users.Badges()
	if len(badges) == 0 {
		fmt.Println("no badges")
		return nil
	}
	for _, badge := range badges {
		awarded := ""
		if !badge.AwardedAt.IsZero() {
			awarded = timex.FormatDate(badge.AwardedAt, false)
		}
		fmt.Printf("%-24s %s\n", badge.Name, awarded)
	}
	return nil
}

func runRoutes() error {
	var walk func(r routes.Route, parent string)
	walk = func(r routes.Route, parent string) {
		m, ok := routes.Resolve(join(parent, r.Path))
		if !ok {
			return
		}
		guard := "public"
		if m.Route.RequiresAuth {
			guard = "auth"
		}
		fmt.Printf("%-28s %-20s %s\n", join(parent, r.Path), r.Name, guard)
		for _, child := range r.Children {
			walk(child, join(parent, r.Path))
		}
	}
	for _, r := range routes.Table() {
		walk(r, "")
	}
	return nil
}

// currentUser restores the persisted session and returns the authenticated
// user, failing when no valid session exists.
func currentUser(ctx context.Context, a *app.Application) (*domain.User, error) {
	if err := requireSession(ctx, a); err != nil {
		return nil, err
	}
	user := a.Session.User()
	if user == nil {
		return nil, errors.New("no user loaded, try logging in again")
	}
	return user, nil
}

func requireSession(ctx context.Context, a *app.Application) error {
	a.Session.Init(ctx)
	if !a.Session.Authenticated() {
		return errors.New("not logged in, run `huddle login` first")
	}
	return nil
}

func presenceOrOffline(p domain.Presence) domain.Presence {
	if p == "" {
		return domain.PresenceOffline
	}
	return p
}

func join(parent, path string) string {
	if parent == "" || path == "" {
		return parent + path
	}
	if path[0] == '/' {
		return path
	}
	return parent + "/" + path
}
