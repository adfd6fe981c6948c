package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"salon-booking-server/internal/client"
	"salon-booking-server/internal/models"
	"salon-booking-server/internal/notify"
	"salon-booking-server/internal/wizard"
)

var (
	errQuit = errors.New("booking abandoned")
	errBack = errors.New("back")
)

func (a *app) book(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	tz := fs.String("tz", getenv("SALON_TIMEZONE", "America/Bogota"), "salon time zone")
	salon := fs.String("salon", getenv("SALON_NAME", "Norato B"), "salon name used in the message")
	number := fs.String("whatsapp", getenv("SALON_WHATSAPP_NUMBER", "573182745713"), "salon WhatsApp number")
	handoff := fs.Bool("handoff", true, "hand the booking to the salon on WhatsApp")
	if err := fs.Parse(args); err != nil {
		return err
	}
	loc, err := time.LoadLocation(*tz)
	if err != nil {
		return fmt.Errorf("invalid time zone: %w", err)
	}

	services, err := a.api.Services(ctx)
	if err != nil {
		return err
	}

	w := wizard.New(a.api, wizard.WithLocation(loc), wizard.WithLogger(a.logger))
	sc := bufio.NewScanner(a.in)
	fmt.Fprintln(a.out, "Type b to go back, r to start over, q to quit.")

	for w.Step() != wizard.StepConfirmed {
		var err error
		switch w.Step() {
		case wizard.StepSelectService:
			err = a.askService(sc, w, services)
		case wizard.StepSelectSchedule:
			err = a.askSchedule(ctx, sc, w, loc)
		case wizard.StepEnterContact:
			err = a.askContact(sc, w)
		}
		if errors.Is(err, errQuit) {
			return err
		}
		if err == nil {
			err = w.Next(ctx)
		}
		if err != nil && !errors.Is(err, errBack) {
			fmt.Fprintln(a.out, "!", describe(err))
		}
	}

	st := w.State().(wizard.Confirmed)
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Booked %s on %s at %s for %s (%s).\n",
		st.Confirmation.Service, st.Confirmation.Date, st.Confirmation.Time, st.Confirmation.CustomerName, st.Confirmation.Status)
	if st.Confirmation.Price != nil {
		fmt.Fprintf(a.out, "Price: %s\n", *st.Confirmation.Price)
	}
	sender := notify.Sender(notify.NewNoopSender())
	if *handoff {
		fmt.Fprintln(a.out, "Confirm with the salon on WhatsApp:")
		sender = a.sender()
	}
	_, err = w.Handoff(ctx, sender, *number, *salon)
	return err
}

func (a *app) sender() notify.Sender {
	if url := getenv("NOTIFY_WEBHOOK_URL", ""); url != "" {
		return notify.NewWebhookSender(url, getenv("NOTIFY_WEBHOOK_TOKEN", ""))
	}
	return &notify.LinkSender{W: a.out}
}

// prompt reads one line; b, r and q are handled here.
func (a *app) prompt(sc *bufio.Scanner, w *wizard.Wizard, label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(a.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(a.out, "%s: ", label)
	}
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	line := strings.TrimSpace(sc.Text())
	switch strings.ToLower(line) {
	case "q":
		return "", errQuit
	case "b":
		if err := w.Back(); err != nil {
			return "", err
		}
		return "", errBack
	case "r":
		w.Reset()
		return "", errBack
	case "":
		return current, nil
	}
	return line, nil
}

func (a *app) askService(sc *bufio.Scanner, w *wizard.Wizard, services []client.Service) error {
	for i, s := range services {
		fmt.Fprintf(a.out, "%2d) %s %s\n", i+1, s.Name, s.DisplayPrice)
	}
	line, err := a.prompt(sc, w, "Service (number or name)", w.Inputs().Service)
	if err != nil {
		return err
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(services) {
		line = services[n-1].ID
	}
	return w.SelectService(line)
}

func (a *app) askSchedule(ctx context.Context, sc *bufio.Scanner, w *wizard.Wizard, loc *time.Location) error {
	in := w.Inputs()
	date := in.Date
	if date == "" {
		date = time.Now().In(loc).Format(models.DateLayout)
	}
	date, err := a.prompt(sc, w, "Date (YYYY-MM-DD)", date)
	if err != nil {
		return err
	}
	if err := w.SelectDate(date); err != nil {
		return err
	}

	slots, err := a.api.Availability(ctx, date)
	if err != nil {
		return err
	}
	for i, s := range slots {
		mark := ""
		if !s.Available {
			mark = " (taken)"
		}
		fmt.Fprintf(a.out, "%2d) %s%s\n", i+1, s.Time, mark)
	}
	line, err := a.prompt(sc, w, "Time (number or label)", in.Time)
	if err != nil {
		return err
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(slots) {
		line = slots[n-1].Time
	}
	return w.SelectTime(line)
}

func (a *app) askContact(sc *bufio.Scanner, w *wizard.Wizard) error {
	in := w.Inputs()
	name, err := a.prompt(sc, w, "Name", in.Name)
	if err != nil {
		return err
	}
	phone, err := a.prompt(sc, w, "Phone", in.Phone)
	if err != nil {
		return err
	}
	email, err := a.prompt(sc, w, "Email (optional)", in.Email)
	if err != nil {
		return err
	}
	return w.SetContact(name, phone, email)
}

func describe(err error) string {
	var verr *models.ValidationError
	var terr *client.TransportError
	switch {
	case errors.Is(err, models.ErrSlotTaken):
		return "that time was just booked, pick another one (b to go back)"
	case errors.As(err, &verr):
		return verr.Error()
	case errors.As(err, &terr):
		return "could not reach the salon, try again: " + terr.Error()
	}
	return err.Error()
}
