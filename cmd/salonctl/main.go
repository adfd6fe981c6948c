// Command salonctl books and manages salon appointments through the API.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"salon-booking-server/internal/client"
	"salon-booking-server/internal/models"
	"salon-booking-server/pkg/logging"
)

const usage = `usage: salonctl <command> [flags]

commands:
  book [-handoff=false]   book an appointment step by step
  services                list the salon's services and prices
  slots -date YYYY-MM-DD  show free and taken slots of a day
  list [-date] [-status]  list appointments (admin)
  status <id> <STATUS>    change an appointment status (admin)
  login                   print an admin token for SALON_TOKEN
  hash-password           print a bcrypt hash for ADMIN_PASSWORD_HASH
`

type app struct {
	api    *client.Client
	logger *logging.Logger
	in     io.Reader
	out    io.Writer
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		api:    client.New(getenv("SALON_API_URL", "http://localhost:3001"), client.WithToken(os.Getenv("SALON_TOKEN"))),
		logger: logging.NewWithWriter(os.Stderr, getenv("LOG_LEVEL", "warn")),
		in:     os.Stdin,
		out:    os.Stdout,
	}
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "book":
		return a.book(ctx, args)
	case "services":
		return a.services(ctx)
	case "slots":
		return a.slots(ctx, args)
	case "list":
		return a.list(ctx, args)
	case "status":
		return a.status(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "hash-password":
		return a.hashPassword(args)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

func (a *app) services(ctx context.Context) error {
	services, err := a.api.Services(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSERVICE\tCATEGORY\tPRICE")
	for _, s := range services {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Category, s.DisplayPrice)
	}
	return tw.Flush()
}

func (a *app) slots(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("slots", flag.ContinueOnError)
	date := fs.String("date", time.Now().Format(models.DateLayout), "day to inspect")
	if err := fs.Parse(args); err != nil {
		return err
	}
	slots, err := a.api.Availability(ctx, *date)
	if err != nil {
		return err
	}
	for _, s := range slots {
		state := "free"
		if !s.Available {
			state = "taken"
		}
		fmt.Fprintf(a.out, "%8s  %s\n", s.Time, state)
	}
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	date := fs.String("date", "", "only this day (YYYY-MM-DD)")
	status := fs.String("status", "", "only this status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts := client.ListOptions{Date: *date}
	if *status != "" {
		st, err := models.ParseStatus(*status)
		if err != nil {
			return err
		}
		opts.Status = st
	}

	list, err := a.api.List(ctx, opts)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tSERVICE\tCUSTOMER\tPHONE\tSTATUS")
	for _, appt := range list.Appointments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			appt.ID, appt.Date, appt.Time, appt.ServiceName, appt.CustomerName, appt.CustomerPhone, appt.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	parts := make([]string, 0, len(models.Statuses))
	for _, st := range models.Statuses {
		parts = append(parts, fmt.Sprintf("%s=%d", strings.ToLower(string(st)), list.Counts[st]))
	}
	fmt.Fprintln(a.out, strings.Join(parts, " "))
	return nil
}

func (a *app) status(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: salonctl status <id> <PENDING|CONFIRMED|CANCELLED|COMPLETED>")
	}
	to, err := models.ParseStatus(args[1])
	if err != nil {
		return err
	}
	appt, err := a.api.UpdateStatus(ctx, args[0], to)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s %s is now %s\n", appt.Date, appt.Time, appt.CustomerName, appt.Status)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", getenv("ADMIN_EMAIL", ""), "admin email")
	password := fs.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	token, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, token)
	return nil
}

// hashPassword reads the password from -password or the first input line.
func (a *app) hashPassword(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	password := fs.String("password", "", "password to hash (read from stdin when empty)")
	cost := fs.Int("cost", 0, "bcrypt cost (0 uses the library default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		sc := bufio.NewScanner(a.in)
		if sc.Scan() {
			*password = strings.TrimRight(sc.Text(), "\r")
		}
		if err := sc.Err(); err != nil {
			return err
		}
	}
	if *password == "" {
		return errors.New("password is required")
	}
	hash, err := models.HashPassword(*password, *cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	fmt.Fprintln(a.out, hash)
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
