// Command attendance es la vista de asistencia para el staff desde la terminal.
// Habla con una API en marcha y arma la vista diaria o semanal del lado del cliente.
//
//	attendance -email staff@doggydaycare.com -password staff123
//	attendance -week -date 2024-06-12
//	attendance -next 1            (mañana; con -week, la semana siguiente)
//	attendance -act <bookingId>
//	attendance -week -export semana.xlsx
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"doggy-daycare/internal/apiclient"
	"doggy-daycare/internal/config"
	"doggy-daycare/internal/domain/attendance"
	"doggy-daycare/internal/platform/civil"
	"doggy-daycare/internal/platform/httpclient"
	"doggy-daycare/internal/platform/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type options struct {
	baseURL  string
	token    string
	email    string
	password string
	date     string
	week     bool
	next     int
	prev     int
	act      string
	export   string
	timeout  time.Duration
}

func main() {
	_ = godotenv.Load()

	log := logger.NewWriter(os.Stderr, "console", config.AppConfig{Name: "attendance", Environment: "cli"}).
		Level(zerolog.InfoLevel)

	if err := run(context.Background(), os.Args[1:], os.Stdout, log); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Error().Err(err).Msg("attendance failed")
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("attendance", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.baseURL, "base-url", envOr("DAYCARE_API_URL", "http://localhost:8080/api/v1"), "API base url")
	fs.StringVar(&o.token, "token", os.Getenv("DAYCARE_TOKEN"), "bearer token (skips login)")
	fs.StringVar(&o.email, "email", os.Getenv("DAYCARE_EMAIL"), "staff email")
	fs.StringVar(&o.password, "password", os.Getenv("DAYCARE_PASSWORD"), "staff password")
	fs.StringVar(&o.date, "date", "", "day to show, YYYY-MM-DD (default today)")
	fs.BoolVar(&o.week, "week", false, "show the Monday-Friday week containing -date")
	fs.IntVar(&o.next, "next", 0, "move N days forward (N weeks with -week)")
	fs.IntVar(&o.prev, "prev", 0, "move N days back (N weeks with -week)")
	fs.StringVar(&o.act, "act", "", "booking id: check in or check out, whichever is enabled")
	fs.StringVar(&o.export, "export", "", "write the week as xlsx to this file")
	fs.DurationVar(&o.timeout, "timeout", 30*time.Second, "overall timeout")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.next < 0 || o.prev < 0 {
		return options{}, errors.New("-next and -prev must be >= 0")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, log zerolog.Logger) error {
	o, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	hc, err := httpclient.NewWithBaseURL(o.baseURL, o.timeout)
	if err != nil {
		return err
	}
	client := apiclient.New(hc)

	switch {
	case o.token != "":
		client.SetToken(o.token)
	case o.email != "":
		res, err := client.Login(ctx, o.email, o.password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		log.Info().Str("user", res.User.FullName).Time("expires_at", res.ExpiresAt).Msg("logged in")
	}

	cursor := civil.Today(time.Now(), nil)
	if strings.TrimSpace(o.date) != "" {
		if cursor, err = civil.ParseDate(o.date); err != nil {
			return err
		}
	}

	board := attendance.NewBoard(apiclient.Source{Client: client}, cursor)
	navigate(board, o)

	if o.export != "" {
		return export(ctx, client, board.Cursor(), o.export, log)
	}

	if err := board.Refresh(ctx); err != nil {
		return fmt.Errorf("load attendance: %w", err)
	}

	if o.act != "" {
		view, err := board.Act(ctx, o.act)
		if err != nil {
			return fmt.Errorf("act on %s: %w", o.act, err)
		}
		log.Info().Str("booking", o.act).Msg("done")
		return printDay(stdout, view)
	}

	if o.week {
		view, err := board.Week()
		if err != nil {
			return err
		}
		return printWeek(stdout, view)
	}

	view, err := board.Day()
	if err != nil {
		return err
	}
	return printDay(stdout, view)
}

// navigate mueve el cursor del board: por días, o por semanas con -week.
func navigate(b *attendance.Board, o options) {
	fwd, back := b.NextDay, b.PrevDay
	if o.week {
		fwd, back = b.NextWeek, b.PrevWeek
	}
	for i := 0; i < o.next; i++ {
		fwd()
	}
	for i := 0; i < o.prev; i++ {
		back()
	}
}

func export(ctx context.Context, client *apiclient.Client, cursor civil.Date, path string, log zerolog.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := client.ExportWeek(ctx, cursor, f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("export week: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("file", path).Str("week_of", cursor.String()).Msg("week exported")
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
